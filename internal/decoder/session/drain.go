// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/metrics"
)

type drainLoop struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// startDrainLocked launches the output goroutine for the current engine.
// It is a no-op while a loop is already running.
func (c *Controller) startDrainLocked() {
	if c.drain != nil || c.codec == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	codec := c.codec
	timeout := c.cfg.OutputTimeout
	logger := sessionLogger("decoder.drain", c.sessionID)
	g.Go(func() error {
		runDrain(gctx, codec, timeout, &c.rendered, logger)
		return nil
	})
	c.drain = &drainLoop{cancel: cancel, group: g}
}

// stopDrainLocked cancels the loop and waits until it has exited.
func (c *Controller) stopDrainLocked() {
	if c.drain == nil {
		return
	}
	c.drain.cancel()
	_ = c.drain.group.Wait()
	c.drain = nil
}

// runDrain releases decoded frames to the surface until ctx is cancelled.
// Format and buffer change notifications are ignored.
func runDrain(ctx context.Context, codec ports.Codec, timeout time.Duration, rendered *atomic.Int64, logger zerolog.Logger) {
	errLog := rate.Sometimes{First: 1, Interval: time.Second}
	backoff := time.NewTimer(0)
	defer backoff.Stop()
	<-backoff.C

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		idx, info, err := codec.DequeueOutputBuffer(timeout)
		switch {
		case err == nil:
			if rerr := codec.ReleaseOutputBuffer(idx, true); rerr != nil {
				errLog.Do(func() { logger.Warn().Err(rerr).Msg("release output buffer failed") })
				continue
			}
			rendered.Add(1)
			metrics.IncFramesRendered()
			logger.Trace().Int64(log.FieldPTS, info.PresentationTimeUs).Msg("frame rendered")
		case errors.Is(err, ports.ErrTryAgain),
			errors.Is(err, ports.ErrOutputFormatChanged),
			errors.Is(err, ports.ErrOutputBuffersChanged):
		default:
			errLog.Do(func() { logger.Warn().Err(err).Msg("dequeue output buffer failed") })
			backoff.Reset(timeout)
			select {
			case <-ctx.Done():
				return
			case <-backoff.C:
			}
		}
	}
}
