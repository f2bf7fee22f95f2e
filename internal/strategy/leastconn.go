package strategy

import (
	"math"

	"github.com/wcountd/load-balancer/internal/backend"
)

type leastConnStrategy struct {
}

// SelectBackend returns the healthy backend with the fewest active
// connections. Ties go to the lowest registry index, so concurrent callers
// seeing identical counts still resolve deterministically.
func (l *leastConnStrategy) SelectBackend(backends []*backend.Backend) *backend.Backend {
	var bestBackend *backend.Backend
	bestConns := math.MaxInt

	for _, b := range backends {
		if !b.IsHealthy() {
			continue
		}

		if activeConns := b.ActiveConnections(); activeConns < bestConns {
			bestConns = activeConns
			bestBackend = b
		}
	}

	return bestBackend
}

func NewLeastConnStrategy() Strategy {
	return &leastConnStrategy{}
}
