// Package cache memoizes word-count results in a shared Redis store keyed
// by request fingerprint. The cache is advisory: callers must treat every
// error as a miss and never surface it to clients.
package cache
