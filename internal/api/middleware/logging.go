// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	sdlog "github.com/ManuGH/streamdec/internal/log"
)

// Logging writes one access log line per request.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			logger := sdlog.WithComponent("api")
			ev := logger.Debug()
			if sw.status >= http.StatusInternalServerError {
				ev = logger.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Str("request_id", chimw.GetReqID(r.Context())).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
