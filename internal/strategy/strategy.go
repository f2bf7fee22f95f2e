package strategy

import (
	"github.com/wcountd/load-balancer/internal/backend"
)

// Strategy selects a backend for a request. SelectBackend receives the
// full configured backend list in registry order and must skip unhealthy
// entries itself; it returns nil when no healthy backend exists.
type Strategy interface {
	SelectBackend(backends []*backend.Backend) *backend.Backend
}
