// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ManuGH/streamdec/internal/decoder/lifecycle"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/negotiate"
	"github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/metrics"
	"github.com/ManuGH/streamdec/internal/telemetry"
)

// Setup tears down any existing engine, negotiates a decoder for the stream
// and configures it against the current surface.
func (c *Controller) Setup(videoFormat model.VideoFormat, width, height, fps int) model.SetupStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	stream := model.StreamFormat{VideoFormat: videoFormat, Width: width, Height: height, FPS: fps}
	_, span := c.tracer.Start(context.Background(), "decoder.setup")
	defer span.End()
	span.SetAttributes(telemetry.FormatAttributes(string(stream.Codec()), width, height, fps, c.hdr.Effective(videoFormat))...)

	err := c.setupLocked(stream)
	status := model.SetupStatusFor(err)
	metrics.RecordSetup(status.String())
	span.SetAttributes(telemetry.DecoderAttributes(c.plan.Decoder, c.plan.Quirk.Rule)...)

	if err != nil {
		telemetry.RecordError(span, err, status.String())
		c.logger.Error().Err(err).
			Str(log.FieldVideoFormat, videoFormat.String()).
			Str(log.FieldResolution, stream.Resolution()).
			Int("status", int(status)).
			Msg("decoder setup failed")
		return status
	}

	c.logger.Info().
		Str(log.FieldDecoder, c.plan.Decoder).
		Str(log.FieldCodec, string(c.plan.Codec)).
		Str(log.FieldMIME, c.plan.Codec.MIME()).
		Str(log.FieldResolution, stream.Resolution()).
		Int(log.FieldFPS, fps).
		Bool(log.FieldHDR, c.plan.Color.HDR).
		Str(log.FieldQuirk, c.plan.Quirk.Rule).
		Str("format", c.format.Dump()).
		Msg("decoder configured")
	return model.SetupOK
}

func (c *Controller) setupLocked(stream model.StreamFormat) error {
	if c.machine.State() != model.StateUninitialized {
		c.teardownEngineLocked()
		c.fire(lifecycle.EvCleanup)
	}

	c.sessionID = uuid.NewString()
	c.logger = sessionLogger("decoder.session", c.sessionID)
	c.lastPTS = 0
	c.attempts = 0
	c.stream = stream
	c.plan = negotiate.Plan{}

	if err := stream.Validate(); err != nil {
		return err
	}
	if c.surface == nil {
		return model.ErrNoSurface
	}
	if !c.color.HasTriple() {
		return model.ErrMissingColorConfig
	}
	if !c.color.HasColorSpace() {
		return model.ErrMissingColorSpace
	}

	codec, sel, err := c.neg.SelectDecoder(stream.Codec())
	if err != nil {
		return err
	}
	c.codec = codec
	c.fire(lifecycle.EvCreated)

	cls := c.neg.Classify(sel.Name)
	c.plan = c.neg.Plan(negotiate.Request{
		Format:           stream,
		HDR:              c.hdr,
		Color:            c.color,
		LowLatency:       c.cfg.LowLatency,
		AdaptivePlayback: c.cfg.AdaptivePlayback,
	}, sel.Name, cls)
	c.format = c.plan.Format

	c.ensureDataSpaceLocked("pre_configure")
	if err := codec.Configure(c.format, c.surface); err != nil {
		c.releaseCodecLocked()
		c.fire(lifecycle.EvConfigureFailed)
		return fmt.Errorf("%w: %s: %v", model.ErrConfigureFailed, sel.Name, err)
	}
	// Engines may rewrite the surface color space during configure.
	c.ensureDataSpaceLocked("post_configure")

	c.configuredHDR = c.plan.Color.HDR
	c.fire(lifecycle.EvConfigured)
	return nil
}

func (c *Controller) ensureDataSpaceLocked(stage string) {
	if c.surface == nil {
		return
	}
	target := c.plan.Color.Target
	if target == model.DataSpaceUnknown {
		target = negotiate.TargetDataSpace(c.configuredHDR)
	}
	prev := c.surface.DataSpace()
	fixed, err := negotiate.EnsureSurfaceDataSpace(c.surface, target)
	if err != nil {
		c.logger.Warn().Err(err).Str("stage", stage).Msg("surface color space could not be corrected")
		return
	}
	if fixed {
		metrics.IncSurfaceCorrection()
		c.logger.Info().
			Str("stage", stage).
			Str("from", prev.String()).
			Str("to", target.String()).
			Msg("surface color space corrected")
	}
}

// Start starts the configured engine and launches the drain loop. A stopped
// engine is re-configured with the stored format first.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.machine.State()
	switch state {
	case model.StateStarted:
		return
	case model.StateCreated, model.StateConfigured, model.StateStopped:
	default:
		c.logger.Warn().Str(log.FieldOldState, string(state)).Msg("start ignored, no configured engine")
		return
	}
	if c.codec == nil {
		c.logger.Warn().Str(log.FieldOldState, string(state)).Msg("start ignored, engine released")
		return
	}

	if state == model.StateStopped {
		if c.surface == nil || c.format == nil {
			c.logger.Error().Err(model.ErrNoSurface).Msg("cannot reconfigure stopped engine")
			c.fire(lifecycle.EvStartFailed)
			return
		}
		c.ensureDataSpaceLocked("pre_configure")
		if err := c.codec.Configure(c.format, c.surface); err != nil {
			c.logger.Error().Err(err).Msg("engine reconfigure failed")
			c.fire(lifecycle.EvStartFailed)
			return
		}
		c.ensureDataSpaceLocked("post_configure")
	}

	if err := c.codec.Start(); err != nil {
		c.logger.Error().Err(err).Str(log.FieldDecoder, c.codec.Name()).Msg("engine start failed")
		c.fire(lifecycle.EvStartFailed)
		return
	}
	c.fire(lifecycle.EvStarted)
	c.startDrainLocked()
}

// Stop joins the drain loop and stops the engine. The engine is kept for a
// later Start. Safe in every state.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopDrainLocked()
	if !c.machine.Can(lifecycle.EvStopped) {
		return
	}
	if c.codec != nil {
		if err := c.codec.Stop(); err != nil {
			c.logger.Warn().Err(err).Msg("engine stop failed")
		}
	}
	c.fire(lifecycle.EvStopped)
}

// Cleanup releases the engine, the format and the surface and returns the
// session to Uninitialized. Safe in every state.
func (c *Controller) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownEngineLocked()
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.machine.State() != model.StateUninitialized {
		c.fire(lifecycle.EvCleanup)
	}
	c.attempts = 0
	c.lastPTS = 0
}

// teardownEngineLocked joins the drain loop, stops and releases the engine
// and drops the format. The surface is kept.
func (c *Controller) teardownEngineLocked() {
	c.stopDrainLocked()
	if c.codec != nil && c.machine.State() != model.StateStopped {
		if err := c.codec.Stop(); err != nil {
			c.logger.Debug().Err(err).Msg("engine stop during teardown")
		}
	}
	c.releaseCodecLocked()
	c.format = nil
}

func (c *Controller) releaseCodecLocked() {
	if c.codec == nil {
		return
	}
	if err := c.codec.Release(); err != nil {
		c.logger.Warn().Err(err).Msg("engine release failed")
	}
	c.codec = nil
}
