// Package config loads and validates the balancer configuration from
// config.yaml and the environment. Backend membership, the scheduling
// strategy, probe tuning, and the cache endpoint are all fixed at
// process start.
package config
