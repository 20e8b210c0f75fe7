// Package handlers exposes the observatory over HTTP: a generic CRUD resource
// per entity, the country, user and company-trend endpoints, the OpenAPI
// documentation, and the server lifecycle.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server owns the HTTP listener.
type Server struct {
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
	listener     net.Listener
	errs         chan error
}

// NewServer constructs a Server for handler on port. Port 0 picks a free port.
func NewServer(port int, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger:       logger.Named("http_server"),
		httpEndpoint: fmt.Sprintf(":%d", port),
		errs:         make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Serve failures are
// delivered on Errors.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		return fmt.Errorf("HTTP listen error: %w", err)
	}
	s.listener = lis
	s.logger.Info("Starting HTTP server", zap.String("endpoint", lis.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- fmt.Errorf("HTTP serve error: %w", err)
		}
		close(s.errs)
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Errors() <-chan error {
	return s.errs
}

// Stop gracefully shuts down the server, waiting up to five seconds for
// in-flight requests.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
