// Package backend models the word-count servers behind the balancer.
// It provides per-backend health and connection-count tracking and a
// fixed-membership registry shared by the dispatcher and the health
// monitor.
package backend
