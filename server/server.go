// Package server exposes the aggregator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdullahNavin/bookHuntBD-server/models"
)

const livenessMessage = "BookHuntBD Server is running"

// Searcher is the aggregation contract the façade depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Listing, error)
}

// Server routes HTTP requests to the aggregator.
type Server struct {
	searcher Searcher
	mux      *http.ServeMux
}

// New builds the server. registry is optional; when set, its metrics are
// served at /metrics.
func New(searcher Searcher, registry *prometheus.Registry) *Server {
	s := &Server{
		searcher: searcher,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/search", s.handleSearch)
	s.mux.HandleFunc("/", s.handleLiveness)
	if registry != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return s
}

// Handler returns the root handler with CORS applied to every route.
func (s *Server) Handler() http.Handler {
	return allowAllCORS(s.mux)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing query"})
		return
	}

	listings, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		slog.Error("aggregation failed",
			slog.String("query", query),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch book data"})
		return
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(livenessMessage)); err != nil {
		slog.Error("write liveness response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

// allowAllCORS permits every origin; the API serves public, read-only data.
func allowAllCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
