// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/log"
)

// PerformStartupChecks verifies the files the configuration points at before
// the daemon starts serving.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")

	var errs []error
	if path := cfg.Decoder.QuirksFile; path != "" {
		if _, err := quirks.LoadFile(path); err != nil {
			errs = append(errs, fmt.Errorf("quirks file: %w", err))
		}
	}
	if path := cfg.Color.HDRMetadataFile; path != "" {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("hdr metadata file: %w", err))
		case info.Size() > model.HDRMetadataCapacity:
			errs = append(errs, fmt.Errorf("hdr metadata file: %w: %d bytes", model.ErrHDRMetadataTooLong, info.Size()))
		}
	}
	if path := cfg.Replay.Input; path != "" {
		if res := NewFileChecker("replay_input", path).Check(context.Background()); res.Status == StatusUnhealthy {
			errs = append(errs, fmt.Errorf("replay input %s: %s", path, res.Error))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info().Str(log.FieldEvent, "startup.checks_passed").Msg("startup checks passed")
	return nil
}
