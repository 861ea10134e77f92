// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"errors"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/lifecycle"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/metrics"
)

// Submit reasons, used as metric labels.
const (
	reasonQueued         = "queued"
	reasonNotStarted     = "not_started"
	reasonRecoveryFailed = "recovery_failed"
	reasonNoInputBuffer  = "no_input_buffer"
	reasonDequeueFailed  = "dequeue_failed"
	reasonBufferTooSmall = "buffer_too_small"
	reasonQueueFailed    = "queue_failed"
	reasonBadLength      = "bad_length"
)

// Submit feeds one access unit to the engine. Any answer other than
// ResultOK asks the sender for a key frame.
func (c *Controller) Submit(au model.AccessUnit) model.SubmitResult {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	res, reason := c.submitLocked(au)
	metrics.RecordSubmit(res.String(), reason, time.Since(start))
	return res
}

func (c *Controller) submitLocked(au model.AccessUnit) (model.SubmitResult, string) {
	if c.machine.State() == model.StateError && !c.recoverLocked() {
		return model.ResultNeedKeyframe, reasonRecoveryFailed
	}
	if c.machine.State() != model.StateStarted || c.codec == nil {
		return model.ResultNeedKeyframe, reasonNotStarted
	}
	payload, err := au.Payload()
	if err != nil {
		c.logger.Warn().Err(err).Int(log.FieldFrameNumber, au.FrameNumber).Msg("access unit rejected")
		return model.ResultNeedKeyframe, reasonBadLength
	}

	idx, err := c.codec.DequeueInputBuffer(c.cfg.InputTimeout)
	if err != nil {
		if errors.Is(err, ports.ErrTryAgain) {
			c.noInputLog.Do(func() {
				c.logger.Debug().Int(log.FieldFrameNumber, au.FrameNumber).Msg("no input buffer available")
			})
			return model.ResultNeedKeyframe, reasonNoInputBuffer
		}
		c.faultLocked(err, "dequeue_input")
		return model.ResultNeedKeyframe, reasonDequeueFailed
	}

	buf, err := c.codec.InputBuffer(idx)
	if err != nil {
		c.faultLocked(err, "input_buffer")
		return model.ResultNeedKeyframe, reasonDequeueFailed
	}

	if len(payload) > len(buf) {
		c.logger.Warn().
			Int(log.FieldUnitLength, len(payload)).
			Int(log.FieldBufferSize, len(buf)).
			Int(log.FieldFrameNumber, au.FrameNumber).
			Msg("input buffer too small, submitting empty buffer")
		// Hand the slot back so the engine's bookkeeping stays consistent.
		if err := c.codec.QueueInputBuffer(idx, 0, 0, 0, 0); err != nil {
			c.faultLocked(err, "queue_empty")
		}
		return model.ResultNeedKeyframe, reasonBufferTooSmall
	}
	n := copy(buf, payload)

	var flags ports.BufferFlags
	if au.Kind.IsConfig() {
		flags |= ports.FlagCodecConfig
	}
	if au.Frame == model.FrameKey {
		flags |= ports.FlagKeyFrame
	}
	pts := c.nextPTSLocked(au)

	if err := c.codec.QueueInputBuffer(idx, 0, n, pts, flags); err != nil {
		c.faultLocked(err, "queue_input")
		return model.ResultNeedKeyframe, reasonQueueFailed
	}

	c.logger.Trace().
		Str(log.FieldUnitKind, au.Kind.String()).
		Int(log.FieldFrameNumber, au.FrameNumber).
		Int64(log.FieldPTS, pts).
		Int(log.FieldUnitLength, n).
		Msg("access unit queued")
	return model.ResultOK, reasonQueued
}

// nextPTSLocked assigns presentation timestamps in microseconds. Config units
// carry zero; everything else is strictly increasing.
func (c *Controller) nextPTSLocked(au model.AccessUnit) int64 {
	if au.Kind.IsConfig() {
		return 0
	}
	pts := au.EnqueueMs * 1000
	if pts <= c.lastPTS {
		pts = c.lastPTS + 1
	}
	c.lastPTS = pts
	return pts
}

// faultLocked moves a running session to Error so the next Submit recovers.
func (c *Controller) faultLocked(err error, op string) {
	c.logger.Error().Err(err).Str("op", op).Msg("engine fault")
	if c.machine.Can(lifecycle.EvFault) {
		c.fire(lifecycle.EvFault)
	}
}
