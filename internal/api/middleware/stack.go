// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package middleware holds the HTTP ingress stack of the status server.
package middleware

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// StackConfig selects the cross-cutting middleware applied to every route.
type StackConfig struct {
	EnableSecurityHeaders bool

	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
}

// NewRouter constructs a chi router with the stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the middleware stack to r, outermost first.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	if cfg.EnableSecurityHeaders {
		r.Use(SecurityHeaders)
	}
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(Logging())
	}
	if cfg.RateLimit > 0 {
		r.Use(APIRateLimit(cfg.RateLimit))
	}
}
