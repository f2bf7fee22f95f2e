package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/wcountd/load-balancer/internal/dispatcher"
)

// WordCountHandler exposes the dispatcher over HTTP: POST /count with a
// raw text body returns the word map as JSON.
type WordCountHandler struct {
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher
}

func NewWordCountHandler(logger *slog.Logger, disp *dispatcher.Dispatcher) *WordCountHandler {
	return &WordCountHandler{
		logger:     logger,
		dispatcher: disp,
	}
}

func (h *WordCountHandler) Count(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientIP := extractClientIP(r)

	h.logger.Info("Received request",
		slog.String("from", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("user_agent", r.UserAgent()))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), string(body))
	if err != nil {
		h.writeError(w, clientIP, err)
		return
	}

	h.logger.Info("Request served",
		slog.String("client", clientIP),
		slog.String("backend", resp.Backend),
		slog.Bool("cache_hit", resp.CacheHit))

	w.Header().Set("X-Backend-Server", resp.Backend)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp.Counts); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("err", err))
	}
}

// FlushCache drops every cached result. Meant for operators, not clients.
func (h *WordCountHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.dispatcher.FlushCache(r.Context()); err != nil {
		h.logger.Error("Cache flush failed", slog.Any("err", err))
		http.Error(w, "cache flush failed", http.StatusBadGateway)
		return
	}

	h.logger.Info("Cache flushed", slog.String("by", extractClientIP(r)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *WordCountHandler) writeError(w http.ResponseWriter, clientIP string, err error) {
	switch {
	case errors.Is(err, dispatcher.ErrInvalidPayload):
		http.Error(w, "invalid payload", http.StatusBadRequest)

	case errors.Is(err, dispatcher.ErrNoHealthyBackend):
		h.logger.Warn("No healthy backends available", slog.String("client", clientIP))
		http.Error(w, "No healthy server available", http.StatusServiceUnavailable)

	default:
		h.logger.Error("Dispatch failed", slog.String("client", clientIP), slog.Any("err", err))
		http.Error(w, "word count failed", http.StatusBadGateway)
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
