package strategy

import (
	"sync"

	"github.com/wcountd/load-balancer/internal/backend"
)

type roundRobinStrategy struct {
	mutex  sync.Mutex
	cursor int
}

// SelectBackend walks forward from the cursor over the full configured
// list, skipping unhealthy backends, and parks the cursor on the chosen
// slot. Keeping the cursor over the full topology (rather than the healthy
// subset) preserves fairness when backends drop out and come back.
func (rr *roundRobinStrategy) SelectBackend(backends []*backend.Backend) *backend.Backend {
	n := len(backends)
	if n == 0 {
		return nil
	}

	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	for i := 1; i <= n; i++ {
		index := (rr.cursor + i) % n

		if backends[index].IsHealthy() {
			rr.cursor = index
			return backends[index]
		}
	}

	return nil
}

func NewRoundRobinStrategy() Strategy {
	return &roundRobinStrategy{
		cursor: -1,
	}
}
