// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the daemon's status endpoints.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/streamdec/internal/api/middleware"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/health"
	"github.com/ManuGH/streamdec/internal/decoder/session"
	sdlog "github.com/ManuGH/streamdec/internal/log"
)

// SessionSource exposes the decoder session record.
type SessionSource interface {
	Snapshot() session.Snapshot
}

// Reloader re-reads the configuration file.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Config configures the status server.
type Config struct {
	Listen         string
	RateLimit      int
	TracingService string
	Version        string

	// MaxRecoveryAttempts bounds the degraded window of the health check.
	MaxRecoveryAttempts int
}

// Server is the status HTTP server.
type Server struct {
	cfg      Config
	source   SessionSource
	quirks   *quirks.Registry
	reloader Reloader
	health   *health.Manager
	router   chi.Router
	http     *http.Server
	logger   zerolog.Logger
}

// ServerOption allows functional configuration of the Server.
type ServerOption func(*Server)

// WithQuirks exposes the quirk table under /api/v1/quirks.
func WithQuirks(r *quirks.Registry) ServerOption {
	return func(s *Server) { s.quirks = r }
}

// WithChecker adds a readiness check next to the session check.
func WithChecker(c health.Checker) ServerOption {
	return func(s *Server) { s.health.RegisterChecker(c) }
}

// WithReloader enables POST /api/v1/config/reload.
func WithReloader(r Reloader) ServerOption {
	return func(s *Server) { s.reloader = r }
}

func New(cfg Config, source SessionSource, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		source:  source,
		logger:  sdlog.WithComponent("api"),
		health:  health.NewManager(cfg.Version),
	}
	s.health.RegisterChecker(health.NewSessionChecker(source, cfg.MaxRecoveryAttempts))
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
		RateLimit:             s.cfg.RateLimit,
	})
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		if s.quirks != nil {
			r.Get("/quirks", s.handleQuirks)
		}
		if s.reloader != nil {
			r.Post("/config/reload", s.handleReload)
		}
	})
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on cfg.Listen and serves until Shutdown. It returns once the
// listener is bound.
func (s *Server) Start() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return nil, err
	}
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("status server stopped")
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("status server listening")
	return ln.Addr(), nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
