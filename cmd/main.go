package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wcountd/load-balancer/config"
	"github.com/wcountd/load-balancer/internal/backend"
	"github.com/wcountd/load-balancer/internal/cache"
	"github.com/wcountd/load-balancer/internal/dispatcher"
	"github.com/wcountd/load-balancer/internal/handler"
	"github.com/wcountd/load-balancer/internal/healthcheck"
	"github.com/wcountd/load-balancer/internal/httpserver"
	"github.com/wcountd/load-balancer/internal/metrics"
	"github.com/wcountd/load-balancer/internal/strategy"
	"github.com/wcountd/load-balancer/internal/wordcount"
	"github.com/wcountd/load-balancer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		log.Error("Failed to initialize backends", slog.Any("err", err))
		os.Exit(1)
	}

	strat, err := createStrategy(cfg.Strategy.Type)
	if err != nil {
		log.Error("Failed to create strategy",
			slog.String("strategy", cfg.Strategy.Type),
			slog.Any("err", err))
		os.Exit(1)
	}

	store, err := createCacheStore(cfg, log)
	if err != nil {
		log.Error("Failed to create cache store", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)
	collector.Start(ctx)

	forwardTimeout, err := time.ParseDuration(cfg.Dispatch.ForwardTimeout)
	if err != nil {
		log.Error("Invalid forward timeout", slog.Any("err", err))
		os.Exit(1)
	}

	disp := dispatcher.New(log, registry, strat, store, wordcount.NewClient(forwardTimeout), collector)

	monitor, err := buildMonitor(cfg, registry, collector, log)
	if err != nil {
		log.Error("Failed to create health monitor", slog.Any("err", err))
		os.Exit(1)
	}
	go monitor.Run(ctx)

	wordCountHandler := handler.NewWordCountHandler(log, disp)
	mux := setupRouter(wordCountHandler, collector, cfg.Strategy.Type)

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Load balancer ready",
		slog.String("address", cfg.Server.Address),
		slog.String("strategy", cfg.Strategy.Type),
		slog.Int("backends", registry.Len()))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting load balancer", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildRegistry(cfg *config.Config, log *slog.Logger) (*backend.Registry, error) {
	var backends []*backend.Backend

	for _, bc := range cfg.Backends {
		u, err := url.Parse(bc.URL)
		if err != nil {
			log.Error("Failed to parse URL",
				slog.String("backend", bc.Name),
				slog.String("url", bc.URL),
				slog.String("error", err.Error()))
			continue
		}

		backends = append(backends, backend.New(bc.Name, u))
	}

	if len(backends) == 0 {
		return nil, os.ErrInvalid
	}

	return backend.NewRegistry(backends), nil
}

func createStrategy(strategyType string) (strategy.Strategy, error) {
	switch strategyType {
	case config.StrategyRoundRobin:
		return strategy.NewRoundRobinStrategy(), nil
	case config.StrategyLeastConn:
		return strategy.NewLeastConnStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategyType)
	}
}

func createCacheStore(cfg *config.Config, log *slog.Logger) (cache.Store, error) {
	if !cfg.Cache.Enabled {
		log.Info("Cache disabled, every request will be computed by a backend")
		return cache.NewDisabledStore(), nil
	}

	return cache.NewRedisStore(cfg.Cache.URL, cfg.Cache.KeyPrefix)
}

func buildMonitor(
	cfg *config.Config,
	registry *backend.Registry,
	collector *metrics.Collector,
	log *slog.Logger,
) (*healthcheck.Monitor, error) {
	interval, err := time.ParseDuration(cfg.HealthCheck.Interval)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(cfg.HealthCheck.Timeout)
	if err != nil {
		return nil, err
	}

	return healthcheck.NewMonitor(registry, healthcheck.Options{
		Interval:         interval,
		Timeout:          timeout,
		FailureThreshold: cfg.HealthCheck.FailureThreshold,
		OnChange: func(name string, healthy bool) {
			collector.Emit(metrics.MetricEvent{
				Type:      metrics.EventHealthChanged,
				Timestamp: time.Now(),
				Backend:   name,
				Healthy:   healthy,
			})
		},
	}, log), nil
}
