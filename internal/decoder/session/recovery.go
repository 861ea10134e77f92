// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ManuGH/streamdec/internal/decoder/lifecycle"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/metrics"
	"github.com/ManuGH/streamdec/internal/telemetry"
)

const (
	strategyFlush   = "flush"
	strategyRestart = "restart"
	strategyNone    = "none"

	outcomeSuccess   = "success"
	outcomeFailure   = "failure"
	outcomeSkipped   = "skipped"
	outcomeExhausted = "exhausted"
)

var (
	errNoEngine        = errors.New("no engine instance")
	errNotRecoverable  = errors.New("state does not allow flush")
	errMissingSnapshot = errors.New("no stored format or surface")
)

// recoverLocked runs the flush-then-restart ladder once. After
// MaxRecoveryAttempts failed rounds it gives up without touching the engine
// until Setup or Cleanup resets the counter.
func (c *Controller) recoverLocked() bool {
	if c.attempts >= c.cfg.MaxRecoveryAttempts {
		metrics.RecordRecovery(strategyNone, outcomeExhausted)
		c.exhaustedLog.Do(func() {
			c.logger.Warn().Int(log.FieldAttempt, c.attempts).Msg("recovery exhausted, waiting for setup")
		})
		return false
	}

	_, span := c.tracer.Start(context.Background(), "decoder.recover")
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.RecoveryAttemptKey, c.attempts+1))

	if c.recoverStep(strategyFlush, c.tryFlushLocked) {
		span.SetAttributes(attribute.String(telemetry.RecoveryOutcomeKey, strategyFlush))
		return true
	}
	if c.recoverStep(strategyRestart, c.tryRestartLocked) {
		span.SetAttributes(attribute.String(telemetry.RecoveryOutcomeKey, strategyRestart))
		return true
	}

	c.attempts++
	span.SetAttributes(attribute.String(telemetry.RecoveryOutcomeKey, outcomeFailure))
	c.logger.Warn().Int(log.FieldAttempt, c.attempts).Msg("recovery failed")
	return false
}

func (c *Controller) recoverStep(strategy string, step func() error) bool {
	err := step()
	switch {
	case err == nil:
		metrics.RecordRecovery(strategy, outcomeSuccess)
		c.attempts = 0
		c.fire(lifecycle.EvRecovered)
		c.startDrainLocked()
		c.logger.Info().Str(log.FieldStrategy, strategy).Msg("decoder recovered")
		return true
	case errors.Is(err, errNoEngine), errors.Is(err, errNotRecoverable), errors.Is(err, errMissingSnapshot):
		metrics.RecordRecovery(strategy, outcomeSkipped)
	default:
		metrics.RecordRecovery(strategy, outcomeFailure)
	}
	c.logger.Debug().Err(err).Str(log.FieldStrategy, strategy).Msg("recovery strategy failed")
	return false
}

// tryFlushLocked discards in-flight buffers. Timestamps stay monotonic
// across the flush.
func (c *Controller) tryFlushLocked() error {
	state := c.machine.State()
	if state != model.StateStarted && state != model.StateError {
		return errNotRecoverable
	}
	if c.codec == nil {
		return errNoEngine
	}
	return c.codec.Flush()
}

// tryRestartLocked stops, reconfigures and restarts the engine against the
// stored format and surface.
func (c *Controller) tryRestartLocked() error {
	if c.codec == nil {
		return errNoEngine
	}
	if c.format == nil || c.surface == nil {
		return errMissingSnapshot
	}
	c.stopDrainLocked()
	if err := c.codec.Stop(); err != nil {
		return err
	}
	c.ensureDataSpaceLocked("pre_configure")
	if err := c.codec.Configure(c.format, c.surface); err != nil {
		return err
	}
	c.ensureDataSpaceLocked("post_configure")
	return c.codec.Start()
}
