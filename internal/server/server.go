// Package server exposes the engine over HTTP/JSON plus a server-sent-event
// feed that follows the change bus.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/scatterbrainlabs/scatterbrain/engine"
)

type Server struct {
	registry *engine.Registry
	origins  map[string]struct{}
	logger   *slog.Logger
	server   *http.Server
}

// New builds a server around the registry. origins lists browser origins
// allowed to call the API and the SSE feed.
func New(port int, origins []string, registry *engine.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry: registry,
		origins:  map[string]struct{}{},
		logger:   logger,
	}
	for _, origin := range origins {
		s.origins[origin] = struct{}{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/plans", s.handleListPlans)
	mux.HandleFunc("POST /api/plans", s.handleCreatePlan)
	mux.HandleFunc("DELETE /api/plans/{id}", s.handleDeletePlan)
	mux.HandleFunc("GET /api/plans/{id}/plan", s.handleGetPlan)
	mux.HandleFunc("GET /api/plans/{id}/current", s.handleCurrent)
	mux.HandleFunc("GET /api/plans/{id}/context", s.handleContext)
	mux.HandleFunc("POST /api/plans/{id}/task", s.handleAddTask)
	mux.HandleFunc("POST /api/plans/{id}/move", s.handleMove)
	mux.HandleFunc("POST /api/plans/{id}/level", s.handleChangeLevel)
	mux.HandleFunc("POST /api/plans/{id}/complete", s.handleComplete)
	mux.HandleFunc("POST /api/plans/{id}/uncomplete", s.handleUncomplete)
	mux.HandleFunc("POST /api/plans/{id}/lease", s.handleLease)
	mux.HandleFunc("DELETE /api/plans/{id}/tasks/{index}", s.handleRemoveTask)
	mux.HandleFunc("GET /api/plans/{id}/tasks/{index}/notes", s.handleGetNotes)
	mux.HandleFunc("PUT /api/plans/{id}/tasks/{index}/notes", s.handleSetNotes)
	mux.HandleFunc("DELETE /api/plans/{id}/tasks/{index}/notes", s.handleDeleteNotes)
	mux.HandleFunc("GET /ui/events/{id}", s.handleEvents)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.corsMiddleware(mux),
	}
	return s
}

// Handler returns the fully wired handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
