// Package server exposes the latest mirrored snapshot over HTTP for the dashboard.
// It is read-only and never triggers a scrape.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"mnavtracker/cache"
	"mnavtracker/logger"
	"mnavtracker/publish"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Source reads what the Redis publisher mirrored
type Source interface {
	GetJSON(ctx context.Context, key string, v any) error
	Ping(ctx context.Context) error
}

// Server serves snapshots from a Source
type Server struct {
	source Source
	prefix string
	log    *logger.Logger
}

// New creates a Server reading keys under prefix
func New(source Source, prefix string, log *logger.Logger) *Server {
	return &Server{source: source, prefix: prefix, log: log}
}

// Handler returns the routed, logged and CORS-enabled handler
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/params", s.ParamsHandler).Methods("GET")
	router.HandleFunc("/healthz", s.HealthHandler).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET"}),
	)
	return handlers.LoggingHandler(os.Stderr, cors(router))
}

// ParamsHandler returns the latest snapshot as JSON
func (s *Server) ParamsHandler(w http.ResponseWriter, r *http.Request) {
	var latest map[string]any
	err := s.source.GetJSON(r.Context(), s.prefix+publish.LatestKey, &latest)
	if errors.Is(err, cache.ErrMiss) {
		http.Error(w, "No snapshot published yet", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("failed to read latest snapshot", "err", err)
		http.Error(w, "Error reading snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(latest)
}

// HealthHandler reports whether the cache is reachable
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.source.Ping(r.Context()); err != nil {
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
