package backend

// Registry holds the fixed set of configured backends in stable order.
// Membership never changes after construction; only per-backend state
// (health, connection counters) is mutable. The registry is safe for
// concurrent use by the dispatcher and the health monitor because every
// mutation goes through the per-backend mutex.
type Registry struct {
	backends []*Backend
	byName   map[string]*Backend
}

// NewRegistry creates a registry over the given backends. The slice order
// is the stable order reported by List and Healthy.
func NewRegistry(backends []*Backend) *Registry {
	byName := make(map[string]*Backend, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}

	return &Registry{
		backends: backends,
		byName:   byName,
	}
}

// List returns all configured backends in stable order.
func (r *Registry) List() []*Backend {
	out := make([]*Backend, len(r.backends))
	copy(out, r.backends)
	return out
}

// Healthy returns the currently healthy backends in the same stable order
// as List. The snapshot is eventually consistent across backends: a health
// transition concurrent with this call may or may not be reflected.
func (r *Registry) Healthy() []*Backend {
	healthy := make([]*Backend, 0, len(r.backends))

	for _, b := range r.backends {
		if b.IsHealthy() {
			healthy = append(healthy, b)
		}
	}

	return healthy
}

// Get returns the backend with the given name.
func (r *Registry) Get(name string) (*Backend, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// Len returns the number of configured backends.
func (r *Registry) Len() int {
	return len(r.backends)
}

// MarkHealthy transitions the named backend to healthy.
// Returns true if the state changed.
func (r *Registry) MarkHealthy(name string) bool {
	b, ok := r.byName[name]
	if !ok {
		return false
	}
	return b.SetHealthy(true)
}

// MarkUnhealthy transitions the named backend to unhealthy.
// Returns true if the state changed.
func (r *Registry) MarkUnhealthy(name string) bool {
	b, ok := r.byName[name]
	if !ok {
		return false
	}
	return b.SetHealthy(false)
}

// IncrementLoad increments the named backend's active connection count.
func (r *Registry) IncrementLoad(name string) {
	if b, ok := r.byName[name]; ok {
		b.IncrementConn()
	}
}

// DecrementLoad decrements the named backend's active connection count.
func (r *Registry) DecrementLoad(name string) {
	if b, ok := r.byName[name]; ok {
		b.DecrementConn()
	}
}
