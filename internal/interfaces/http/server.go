package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
)

// Server wraps the net/http server with configured timeouts and graceful
// shutdown.
type Server struct {
	srv    *http.Server
	router http.Handler
	port   int
	log    logging.Logger
}

// NewServer builds the HTTP server around an already-constructed router.
func NewServer(cfg config.ServerConfig, router http.Handler, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Server{
		router: router,
		port:   cfg.Port,
		log:    log.Named("http"),
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start blocks serving requests until the listener fails or Stop is called.
// A shutdown-triggered close returns nil.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.Int("port", s.port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.  The caller
// bounds the wait through ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
