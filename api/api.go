package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"analyticshub/config"
	"analyticshub/logger"

	"github.com/gorilla/mux"
)

// Server serves the root directory over HTTP with CORS headers on every response
type Server struct {
	router   *mux.Router
	handler  http.Handler
	server   *http.Server
	listener net.Listener
	cfg      *config.Config
	log      *logger.Logger
}

// NewServer builds a server for cfg. Nothing is bound until Listen is called.
func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		cfg:    cfg,
		log:    log,
	}
	s.setupRoutes()

	// CORS wraps the router itself so unmatched methods and redirects get the headers too
	s.handler = s.CORSMiddleware(s.RequestMiddleware(s.router))

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the complete request handler, middleware included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address. A port already in use is returned as an error.
func (s *Server) Listen() error {
	if s.listener != nil {
		return errors.New("server is already listening")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln

	s.log.Debug("Listening", map[string]interface{}{
		"address": ln.Addr().String(),
		"root":    s.cfg.RootDir,
	})
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown is called. It returns nil after a shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for active requests until ctx
// expires, after which remaining connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Debug("Shutting down server", nil)

	err := s.server.Shutdown(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Debug("Abandoning in-flight requests", map[string]interface{}{
			"error": err.Error(),
		})
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("server close failed: %w", closeErr)
		}
		return nil
	}
	return fmt.Errorf("server shutdown failed: %w", err)
}

// CORSMiddleware adds CORS headers to responses
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}
