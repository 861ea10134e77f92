// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/streamdec/internal/annexb"
	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	sdlog "github.com/ManuGH/streamdec/internal/log"
)

// submitter is the part of the session replay drives.
type submitter interface {
	Setup(videoFormat model.VideoFormat, width, height, fps int) model.SetupStatus
	Start()
	Submit(au model.AccessUnit) model.SubmitResult
}

type replayStats struct {
	Config   int
	Pictures int
	Skipped  int
}

// replay feeds an Annex-B file into the session, one picture per frame
// interval. After a keyframe request it drops pictures until the next key
// frame. 10-bit formats are downgraded when the host cannot stream HDR10.
func replay(ctx context.Context, s submitter, cfg config.ReplayConfig, color config.ColorConfig) (replayStats, error) {
	var stats replayStats
	logger := sdlog.WithComponent("replay")

	vf, err := parseVideoFormat(cfg.Codec)
	if err != nil {
		return stats, err
	}
	vf = streamFormat(vf, color)
	r, err := annexb.Open(cfg.Input, vf.Codec())
	if err != nil {
		return stats, err
	}
	if st := s.Setup(vf, cfg.Width, cfg.Height, cfg.FPS); st != model.SetupOK {
		return stats, fmt.Errorf("replay setup: %s", st)
	}
	s.Start()

	interval := time.Second / time.Duration(max(cfg.FPS, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	awaitKey := false
	seen := 0
	for {
		au, err := r.Next()
		if errors.Is(err, io.EOF) {
			if !cfg.Loop || seen == 0 {
				logStats(logger, stats)
				return stats, nil
			}
			seen = 0
			r.Rewind()
			continue
		}
		if err != nil {
			return stats, err
		}

		if au.Kind.IsConfig() {
			s.Submit(au)
			stats.Config++
			continue
		}

		seen++
		select {
		case <-ctx.Done():
			logStats(logger, stats)
			return stats, nil
		case <-ticker.C:
		}

		if awaitKey && au.Frame != model.FrameKey {
			stats.Skipped++
			continue
		}
		au.ReceiveMs = time.Since(start).Milliseconds()
		au.EnqueueMs = au.ReceiveMs
		if s.Submit(au) == model.ResultNeedKeyframe {
			awaitKey = true
			stats.Skipped++
			continue
		}
		awaitKey = false
		stats.Pictures++
	}
}

func logStats(logger zerolog.Logger, stats replayStats) {
	logger.Info().
		Int("config_units", stats.Config).
		Int("pictures", stats.Pictures).
		Int("skipped", stats.Skipped).
		Msg("replay finished")
}
