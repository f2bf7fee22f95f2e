// Package metrics collects dispatch, cache, and health events over a
// buffered channel and serves aggregate counters and latency percentiles
// as a JSON snapshot.
package metrics
