// Package healthcheck maintains a bounded-staleness view of backend health.
// A single background goroutine sweeps all backends on a fixed interval,
// demoting a backend after a configurable number of consecutive probe
// failures and reinstating it after one successful probe.
package healthcheck
