// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by decoder spans.
const (
	DecoderNameKey     = "decoder.name"
	DecoderCodecKey    = "decoder.codec"
	DecoderQuirkKey    = "decoder.quirk"
	DecoderWidthKey    = "decoder.width"
	DecoderHeightKey   = "decoder.height"
	DecoderFPSKey      = "decoder.fps"
	DecoderHDRKey      = "decoder.hdr"
	DecoderStatusKey   = "decoder.setup_status"
	RecoveryAttemptKey = "recovery.attempt"
	RecoveryOutcomeKey = "recovery.outcome"
	SessionIDKey       = "session.id"
	ErrorTypeKey       = "error.type"
)

// FormatAttributes describes a negotiated stream shape.
func FormatAttributes(codec string, width, height, fps int, hdr bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DecoderCodecKey, codec),
		attribute.Int(DecoderWidthKey, width),
		attribute.Int(DecoderHeightKey, height),
		attribute.Int(DecoderFPSKey, fps),
		attribute.Bool(DecoderHDRKey, hdr),
	}
}

// DecoderAttributes describes the selected decoder. Empty values are skipped.
func DecoderAttributes(name, quirk string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if name != "" {
		attrs = append(attrs, attribute.String(DecoderNameKey, name))
	}
	if quirk != "" {
		attrs = append(attrs, attribute.String(DecoderQuirkKey, quirk))
	}
	return attrs
}

// RecordError marks the span failed with a classified error type.
func RecordError(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String(ErrorTypeKey, errorType))
	span.SetStatus(codes.Error, errorType)
}
