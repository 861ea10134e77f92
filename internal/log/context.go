// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// ContextWithSessionID stores the decoder session generation id in the context.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session id from context if present.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext enriches the supplied logger with the session id and the
// active trace/span ids from ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	builder := logger.With()
	added := false
	if sid := SessionIDFromContext(ctx); sid != "" {
		builder = builder.Str(FieldSessionID, sid)
		added = true
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		builder = builder.
			Str(FieldTraceID, sc.TraceID().String()).
			Str(FieldSpanID, sc.SpanID().String())
		added = true
	}
	if !added {
		return logger
	}
	return builder.Logger()
}
