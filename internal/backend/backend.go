package backend

import (
	"net/url"
	"sync"
	"time"
)

// Backend represents a word-count server with health status, connection
// tracking, and probe bookkeeping.
type Backend struct {
	name string
	url  *url.URL

	mutex             sync.Mutex
	isHealthy         bool
	probeFailures     int
	activeConnections int
	totalRequests     int64
	lastProbe         time.Time
}

// New creates a new Backend with the given name and URL.
// The backend starts in a healthy state.
func New(name string, url *url.URL) *Backend {
	return &Backend{
		name:      name,
		url:       url,
		isHealthy: true,
	}
}

// Name returns the stable identifier of the backend.
func (b *Backend) Name() string {
	return b.name
}

// URL returns the backend server URL.
func (b *Backend) URL() *url.URL {
	return b.url
}

// IncrementConn increments the active connection count.
func (b *Backend) IncrementConn() {
	b.mutex.Lock()
	b.activeConnections++
	b.mutex.Unlock()
}

// DecrementConn decrements the active connection count.
// The count never goes below zero.
func (b *Backend) DecrementConn() {
	b.mutex.Lock()
	if b.activeConnections > 0 {
		b.activeConnections--
	}
	b.mutex.Unlock()
}

// ActiveConnections returns the current number of active connections.
func (b *Backend) ActiveConnections() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.activeConnections
}

// RecordRequest increments the total number of requests forwarded to
// this backend.
func (b *Backend) RecordRequest() {
	b.mutex.Lock()
	b.totalRequests++
	b.mutex.Unlock()
}

// TotalRequests returns the total number of requests forwarded to this
// backend since startup.
func (b *Backend) TotalRequests() int64 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.totalRequests
}

// IsHealthy returns true if the backend is currently healthy.
func (b *Backend) IsHealthy() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.isHealthy
}

// SetHealthy updates the backend's health status.
// Returns true if the status changed, false if it was already in that state.
func (b *Backend) SetHealthy(healthy bool) (changed bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.isHealthy == healthy {
		return false
	}

	b.isHealthy = healthy
	return true
}

// RecordProbeFailure increments the consecutive probe failure counter and
// returns the new count.
func (b *Backend) RecordProbeFailure() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.probeFailures++
	b.lastProbe = time.Now()
	return b.probeFailures
}

// RecordProbeSuccess resets the consecutive probe failure counter.
func (b *Backend) RecordProbeSuccess() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.probeFailures = 0
	b.lastProbe = time.Now()
}

// ProbeFailures returns the number of consecutive failed probes.
func (b *Backend) ProbeFailures() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.probeFailures
}

// LastProbe returns the time of the most recent probe, or the zero time if
// the backend has never been probed.
func (b *Backend) LastProbe() time.Time {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.lastProbe
}
