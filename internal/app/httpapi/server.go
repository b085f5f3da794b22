package httpapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/adpulse/gateway/internal/infra/config"
	"github.com/adpulse/gateway/pkg/patterns/lifecycle"
)

// Server runs the gateway's HTTP listener as a managed resource.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	ready  atomic.Bool
}

// NewServer creates the HTTP server for the given handler chain.
func NewServer(cfg config.ServerConfig, handler http.Handler, tlsConfig *tls.Config, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start listens and serves until Stop is called. It blocks.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	s.logger.Info("http server listening", "addr", s.srv.Addr, "tls", s.srv.TLSConfig != nil)
	s.ready.Store(true)

	if s.srv.TLSConfig != nil {
		err = s.srv.ServeTLS(listener, "", "")
	} else {
		err = s.srv.Serve(listener)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.ready.Store(false)
	return s.srv.Shutdown(ctx)
}

// Health reports whether the listener is accepting requests.
func (s *Server) Health(ctx context.Context) lifecycle.HealthStatus {
	if !s.ready.Load() {
		return lifecycle.HealthStatus{Ready: false, Message: "server not started"}
	}
	return lifecycle.HealthStatus{Ready: true}
}
