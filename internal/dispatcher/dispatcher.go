package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wcountd/load-balancer/internal/backend"
	"github.com/wcountd/load-balancer/internal/cache"
	"github.com/wcountd/load-balancer/internal/fingerprint"
	"github.com/wcountd/load-balancer/internal/metrics"
	"github.com/wcountd/load-balancer/internal/strategy"
	"github.com/wcountd/load-balancer/internal/wordcount"
)

var (
	// ErrInvalidPayload marks malformed client input; it never reaches a
	// backend or the cache.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrNoHealthyBackend is returned when the healthy subset is empty at
	// selection time. There is no alternate to retry against.
	ErrNoHealthyBackend = errors.New("no healthy backends")

	// ErrBackendUnreachable is returned when the dispatch and its single
	// failover retry both failed.
	ErrBackendUnreachable = errors.New("backend unreachable")
)

// CacheSource is the backend name reported for requests served from cache.
const CacheSource = "cache"

// maxAttempts bounds dispatch to the initial attempt plus one failover
// retry, so a cascading outage cannot fan out across the whole registry.
const maxAttempts = 2

// Counter performs a word count against a single backend.
type Counter interface {
	Count(ctx context.Context, b *backend.Backend, payload string) (wordcount.Result, error)
}

// Dispatcher orchestrates a request: cache lookup, backend selection,
// connection accounting, forwarding, fail-fast health marking, failover,
// and the best-effort cache write.
type Dispatcher struct {
	logger    *slog.Logger
	registry  *backend.Registry
	strategy  strategy.Strategy
	cache     cache.Store
	counter   Counter
	collector *metrics.Collector
}

// Response is the outcome of a successful dispatch.
type Response struct {
	Counts   wordcount.Result
	Backend  string
	CacheHit bool
}

func New(
	logger *slog.Logger,
	registry *backend.Registry,
	strat strategy.Strategy,
	store cache.Store,
	counter Counter,
	collector *metrics.Collector,
) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		registry:  registry,
		strategy:  strat,
		cache:     store,
		counter:   counter,
		collector: collector,
	}
}

// Dispatch serves one word-count request.
func (d *Dispatcher) Dispatch(ctx context.Context, payload string) (*Response, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, ErrInvalidPayload
	}

	d.emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Timestamp: time.Now()})

	key := fingerprint.Sum(payload)

	counts, hit, err := d.cache.Get(ctx, key)
	if err != nil {
		// Cache errors never surface to the client; degrade to computation.
		d.logger.Warn("Cache lookup failed",
			slog.String("key", key),
			slog.Any("err", err))
	} else if hit {
		d.emit(metrics.MetricEvent{Type: metrics.EventCacheHit, Timestamp: time.Now()})
		return &Response{Counts: counts, Backend: CacheSource, CacheHit: true}, nil
	}

	d.emit(metrics.MetricEvent{Type: metrics.EventCacheMiss, Timestamp: time.Now()})

	return d.forward(ctx, key, payload)
}

func (d *Dispatcher) forward(ctx context.Context, key, payload string) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		chosen := d.selectBackend()
		if chosen == nil {
			if lastErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrBackendUnreachable, lastErr)
			}
			return nil, ErrNoHealthyBackend
		}

		d.emit(metrics.MetricEvent{
			Type:      metrics.EventBackendSelected,
			Timestamp: time.Now(),
			Backend:   chosen.Name(),
		})

		chosen.IncrementConn()
		start := time.Now()

		counts, err := d.counter.Count(ctx, chosen, payload)

		chosen.DecrementConn()
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			d.failFast(chosen, err)
			d.emit(metrics.MetricEvent{
				Type:       metrics.EventResponseCompleted,
				Timestamp:  time.Now(),
				Backend:    chosen.Name(),
				Duration:   duration,
				StatusCode: http.StatusBadGateway,
			})
			if attempt+1 < maxAttempts {
				d.emit(metrics.MetricEvent{
					Type:      metrics.EventFailover,
					Timestamp: time.Now(),
					Backend:   chosen.Name(),
				})
			}
			continue
		}

		d.emit(metrics.MetricEvent{
			Type:       metrics.EventResponseCompleted,
			Timestamp:  time.Now(),
			Backend:    chosen.Name(),
			Duration:   duration,
			StatusCode: http.StatusOK,
		})

		if err := d.cache.Set(ctx, key, counts); err != nil {
			// Best effort: a cache write failure must not fail the request.
			d.logger.Warn("Cache write failed",
				slog.String("key", key),
				slog.Any("err", err))
		}

		return &Response{Counts: counts, Backend: chosen.Name()}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrBackendUnreachable, lastErr)
}

// selectBackend returns the strategy's pick, or nil when the healthy
// subset is empty.
func (d *Dispatcher) selectBackend() *backend.Backend {
	if len(d.registry.Healthy()) == 0 {
		return nil
	}
	return d.strategy.SelectBackend(d.registry.List())
}

// failFast marks a backend unhealthy as soon as a forwarded request fails,
// without waiting for the next probe cycle. The health monitor reinstates
// the backend once it probes healthy again.
func (d *Dispatcher) failFast(b *backend.Backend, cause error) {
	if b.SetHealthy(false) {
		d.logger.Warn("Marking backend unhealthy after failed dispatch",
			slog.String("backend", b.Name()),
			slog.Any("err", cause))
		d.emit(metrics.MetricEvent{
			Type:      metrics.EventHealthChanged,
			Timestamp: time.Now(),
			Backend:   b.Name(),
			Healthy:   false,
		})
	}
}

// FlushCache drops every cached result; the next request for any payload
// recomputes via a backend.
func (d *Dispatcher) FlushCache(ctx context.Context) error {
	return d.cache.FlushAll(ctx)
}

func (d *Dispatcher) emit(event metrics.MetricEvent) {
	if d.collector == nil {
		return
	}
	d.collector.Emit(event)
}
