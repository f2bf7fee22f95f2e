package healthcheck

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wcountd/load-balancer/internal/backend"
)

// Options configure the health monitor. Detection latency is bounded by
// Interval * FailureThreshold; recovery takes a single successful probe.
type Options struct {
	// Interval between probe sweeps.
	Interval time.Duration

	// Timeout applied to each individual probe.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failed probes after
	// which a backend is marked unhealthy. Values below 1 are treated as 1.
	FailureThreshold int

	// Clock drives the probe ticker. Defaults to the real clock.
	Clock clockwork.Clock

	// OnChange, if set, is invoked after every health transition.
	OnChange func(name string, healthy bool)
}

// Monitor probes every backend in the registry on a fixed interval and
// toggles health state. It never adds or removes backends.
type Monitor struct {
	registry  *backend.Registry
	interval  time.Duration
	timeout   time.Duration
	threshold int
	client    *http.Client
	clock     clockwork.Clock
	onChange  func(name string, healthy bool)
	logger    *slog.Logger
}

// NewMonitor creates a monitor over the given registry.
func NewMonitor(registry *backend.Registry, opts Options, logger *slog.Logger) *Monitor {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	threshold := opts.FailureThreshold
	if threshold < 1 {
		threshold = 1
	}

	return &Monitor{
		registry:  registry,
		interval:  opts.Interval,
		timeout:   opts.Timeout,
		threshold: threshold,
		client:    &http.Client{Timeout: opts.Timeout},
		clock:     clock,
		onChange:  opts.OnChange,
		logger:    logger,
	}
}

// Run probes all backends once immediately and then on every tick until
// the context is cancelled. It is meant to run in its own goroutine; the
// request path is never blocked by probing.
func (m *Monitor) Run(ctx context.Context) {
	m.sweep(ctx)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Health monitor stopped")
			return

		case <-ticker.Chan():
			m.sweep(ctx)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) {
	var wg sync.WaitGroup

	for _, b := range m.registry.List() {
		wg.Add(1)
		go func(b *backend.Backend) {
			defer wg.Done()
			m.probe(ctx, b)
		}(b)
	}

	wg.Wait()
}

func (m *Monitor) probe(ctx context.Context, b *backend.Backend) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	healthURL := b.URL().ResolveReference(&url.URL{Path: "/health"})

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, healthURL.String(), nil)
	if err != nil {
		return
	}

	res, err := m.client.Do(req)
	if err == nil {
		io.Copy(io.Discard, res.Body)
		res.Body.Close()
	}

	if err == nil && res.StatusCode == http.StatusOK {
		b.RecordProbeSuccess()
		if b.SetHealthy(true) {
			m.logger.Info("Server is back up",
				slog.String("server", b.Name()))
			m.emitChange(b.Name(), true)
		}
		return
	}

	failures := b.RecordProbeFailure()
	if failures < m.threshold {
		return
	}

	if b.SetHealthy(false) {
		m.logger.Warn("Server is down",
			slog.String("server", b.Name()),
			slog.Int("consecutive_failures", failures))
		m.emitChange(b.Name(), false)
	}
}

func (m *Monitor) emitChange(name string, healthy bool) {
	if m.onChange != nil {
		m.onChange(name, healthy)
	}
}
