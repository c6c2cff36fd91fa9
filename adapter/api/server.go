// Package api serves the triage HTTP API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "triage"

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	health  *observability.HealthRegistry
	tasks   *TaskHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		MaxBodyBytes: 4 << 20,
	}
}

// NewServer creates a new API server. health may be nil.
func NewServer(cfg ServerConfig, analyzer *application.Analyzer, health *observability.HealthRegistry, metrics observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if health == nil {
		health = observability.NewHealthRegistry(0)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
		health:  health,
		tasks:   NewTaskHandler(analyzer, cfg.MaxBodyBytes, logger),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/v1/tasks/analyze", s.tasks.Analyze)
	s.mux.HandleFunc("POST /api/v1/tasks/suggest", s.tasks.Suggest)
	s.mux.HandleFunc("GET /api/v1/tasks/suggest", s.tasks.SuggestDemo)
	s.mux.HandleFunc("POST /api/v1/tasks/cycles", s.tasks.Cycles)
	s.mux.HandleFunc("GET /api/v1/strategies", s.tasks.Strategies)

	if m, ok := s.metrics.(*observability.InMemoryMetrics); ok {
		s.mux.HandleFunc("GET /api/v1/metrics", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"counters": m.Counters()})
		})
	}
}

// Handler returns the routed handler wrapped in request middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestContext(s.mux)
}

// handleHealth reports component health; 503 when any component is unhealthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())

	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":  health.Status,
		"service": ServiceName,
		"time":    health.Timestamp.UTC().Format(time.RFC3339),
		"checks":  health.Checks,
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	body := map[string]string{"error": message}
	if detail != "" {
		body["message"] = detail
	}
	writeJSON(w, status, body)
}
