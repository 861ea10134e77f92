// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/negotiate"
)

// Snapshot is a read-only copy of the session record.
type Snapshot struct {
	SessionID        string            `json:"session_id,omitempty"`
	State            model.State       `json:"state"`
	Decoder          string            `json:"decoder,omitempty"`
	Codec            model.Codec       `json:"codec,omitempty"`
	Quirk            string            `json:"quirk,omitempty"`
	Quirky           bool              `json:"quirky"`
	HDR              bool              `json:"hdr"`
	HDRRequested     bool              `json:"hdr_requested"`
	HDRMetadataLen   int               `json:"hdr_metadata_len"`
	Width            int               `json:"width,omitempty"`
	Height           int               `json:"height,omitempty"`
	FPS              int               `json:"fps,omitempty"`
	ColorSuppressed  bool              `json:"color_suppressed"`
	TargetDataSpace  string            `json:"target_dataspace,omitempty"`
	Surface          string            `json:"surface,omitempty"`
	LastPTS          int64             `json:"last_pts_us"`
	RecoveryAttempts int               `json:"recovery_attempts"`
	FramesRendered   int64             `json:"frames_rendered"`
	DrainRunning     bool              `json:"drain_running"`
	Options          negotiate.Options `json:"options"`
	Format           map[string]any    `json:"format,omitempty"`
}

// Snapshot returns the current session record.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:        c.sessionID,
		State:            c.machine.State(),
		Decoder:          c.plan.Decoder,
		Codec:            c.plan.Codec,
		Quirk:            c.plan.Quirk.Rule,
		Quirky:           c.plan.Quirk.Quirky(),
		HDR:              c.configuredHDR,
		HDRRequested:     c.hdr.Enabled,
		HDRMetadataLen:   len(c.hdr.Metadata),
		Width:            c.stream.Width,
		Height:           c.stream.Height,
		FPS:              c.stream.FPS,
		ColorSuppressed:  c.plan.Color.Suppressed,
		LastPTS:          c.lastPTS,
		RecoveryAttempts: c.attempts,
		FramesRendered:   c.rendered.Load(),
		DrainRunning:     c.drain != nil,
		Options:          c.plan.Options,
	}
	if c.plan.Color.Target != model.DataSpaceUnknown {
		s.TargetDataSpace = c.plan.Color.Target.String()
	}
	if c.surface != nil {
		s.Surface = c.surface.ID()
	}
	if c.format != nil {
		s.Format = c.format.Map()
	}
	return s
}
