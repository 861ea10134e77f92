// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Decoder fields
	FieldDecoder     = "decoder"
	FieldCodec       = "codec"
	FieldMIME        = "mime"
	FieldResolution  = "resolution"
	FieldFPS         = "fps"
	FieldQuirk       = "quirk"
	FieldVideoFormat = "video_format"

	// Submission fields
	FieldPTS         = "pts_us"
	FieldFrameNumber = "frame_number"
	FieldUnitKind    = "unit_kind"
	FieldBufferSize  = "buffer_size"
	FieldUnitLength  = "unit_length"

	// Color fields
	FieldHDR        = "hdr"
	FieldColorRange = "color_range"
	FieldColorSpace = "color_space"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"
	FieldAttempt  = "attempt"
	FieldStrategy = "strategy"
)
