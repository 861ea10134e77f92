// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"github.com/ManuGH/streamdec/internal/decoder/lifecycle"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/negotiate"
	"github.com/ManuGH/streamdec/internal/log"
)

// SetHdrMode records the HDR intent. Metadata over HDRMetadataCapacity is
// rejected and the stored length resets to zero. If a configured engine was
// set up with the other HDR value it is torn down (surface kept) and the
// session returns to Uninitialized until the next Setup.
func (c *Controller) SetHdrMode(enabled bool, metadata []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hdr.Explicit = true
	c.hdr.Enabled = enabled
	c.hdr.Metadata = nil

	switch {
	case len(metadata) > model.HDRMetadataCapacity:
		c.logger.Warn().Err(model.ErrHDRMetadataTooLong).
			Int("metadata_len", len(metadata)).
			Int("capacity", model.HDRMetadataCapacity).
			Msg("hdr metadata rejected")
	case enabled && len(metadata) > 0:
		c.hdr.Metadata = append([]byte(nil), metadata...)
	}

	c.reconcileHDRLocked(enabled)
}

// ResetHdrMode drops an earlier SetHdrMode so HDR is inferred from the
// format bits again. A configured engine whose HDR value no longer matches
// is torn down like in SetHdrMode.
func (c *Controller) ResetHdrMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hdr.Explicit {
		return
	}
	c.hdr = negotiate.HDRState{}
	c.reconcileHDRLocked(c.hdr.Effective(c.stream.VideoFormat))
}

func (c *Controller) reconcileHDRLocked(effective bool) {
	state := c.machine.State()
	if !state.IsConfigured() || c.codec == nil {
		return
	}
	if effective == c.configuredHDR {
		return
	}

	c.logger.Info().
		Bool(log.FieldHDR, effective).
		Str(log.FieldOldState, string(state)).
		Msg("hdr mode changed, tearing down engine")
	c.teardownEngineLocked()
	c.fire(lifecycle.EvHdrChanged)
}
