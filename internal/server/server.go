// Package server exposes the HTTP API: auth, collection and movie
// management, JSON import, and the SSE generation stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"flickvault/internal/auth"
	"flickvault/internal/config"
	"flickvault/internal/library"
	"flickvault/internal/logging"
)

// Server owns the HTTP listener and its route handlers.
type Server struct {
	cfg    *config.Config
	store  *library.Store
	tokens *auth.Manager
	logger *slog.Logger

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New wires the route table. The server does not listen until Start.
func New(cfg *config.Config, store *library.Store, tokens *auth.Manager, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		tokens: tokens,
		logger: logging.NewComponentLogger(logger, "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.withUser(s.handleMe))

	mux.HandleFunc("GET /api/collections", s.withUser(s.handleListCollections))
	mux.HandleFunc("POST /api/collections", s.withUser(s.handleCreateCollection))
	mux.HandleFunc("GET /api/collections/{id}", s.withUser(s.handleGetCollection))
	mux.HandleFunc("PUT /api/collections/{id}", s.withUser(s.handleUpdateCollection))
	mux.HandleFunc("DELETE /api/collections/{id}", s.withUser(s.handleDeleteCollection))

	mux.HandleFunc("POST /api/collections/{id}/movies", s.withUser(s.handleAddMovie))
	mux.HandleFunc("POST /api/collections/{id}/movies/batch", s.withUser(s.handleAddMoviesBatch))
	mux.HandleFunc("DELETE /api/collections/{id}/movies/{movieID}", s.withUser(s.handleRemoveMovie))
	mux.HandleFunc("POST /api/collections/{id}/import", s.withUser(s.handleImport))

	mux.HandleFunc("GET /api/movies/search", s.withUser(s.handleSearchMovies))
	mux.HandleFunc("GET /api/movies/{id}/details", s.withUser(s.handleMovieDetails))

	mux.HandleFunc("POST /api/collections/generate", s.withUser(s.handleGenerate))

	s.handler = mux
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: the generation stream stays open for the
		// duration of a run.
	}
	return s
}

// Handler returns the route table for in-process serving.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening on the configured bind address. The server
// shuts down when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	if bind == "" {
		return errors.New("api bind address required")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
