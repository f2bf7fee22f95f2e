package main

import (
	"net/http"

	"github.com/wcountd/load-balancer/internal/handler"
	"github.com/wcountd/load-balancer/internal/metrics"
)

func setupRouter(wordCountHandler *handler.WordCountHandler, metricsCollector *metrics.Collector, strategy string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/count", wordCountHandler.Count)
	mux.HandleFunc("/cache/flush", wordCountHandler.FlushCache)
	mux.HandleFunc("/metrics", metricsCollector.Handler(strategy))

	return mux
}
