// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/streamdec/internal/telemetry"
	"github.com/ManuGH/streamdec/internal/validate"
)

// Validate checks ranges and enumerations.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.DurationRange("decoder.inputTimeout", cfg.Decoder.InputTimeout, time.Millisecond, time.Second)
	v.DurationRange("decoder.outputTimeout", cfg.Decoder.OutputTimeout, time.Millisecond, time.Second)
	v.Range("decoder.maxRecoveryAttempts", cfg.Decoder.MaxRecoveryAttempts, 1, 10)
	v.Range("decoder.inputBuffers", cfg.Decoder.InputBuffers, 1, 64)
	v.Range("decoder.inputBufferSize", cfg.Decoder.InputBufferSize, 4<<10, 64<<20)
	v.FileExists("decoder.quirksFile", cfg.Decoder.QuirksFile)

	v.OneOf("color.range", cfg.Color.Range, []string{RangeLimited, RangeFull})
	v.OneOf("color.hdr", cfg.Color.HDR, []string{HDRAuto, HDROn, HDROff})
	v.FileExists("color.hdrMetadataFile", cfg.Color.HDRMetadataFile)

	if _, err := validate.ParseLogLevel(cfg.Log.Level); err != nil {
		v.AddError("log.level", "must be one of: trace, debug, info, warn, error", cfg.Log.Level)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{telemetry.ExporterGRPC, telemetry.ExporterHTTP})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	v.ListenAddr("api.listen", cfg.API.Listen)
	v.Positive("api.rateLimit", cfg.API.RateLimit)

	if cfg.Replay.Input != "" {
		v.FileExists("replay.input", cfg.Replay.Input)
		v.OneOf("replay.codec", cfg.Replay.Codec, []string{"h264", "h265"})
		v.Range("replay.width", cfg.Replay.Width, 16, 8192)
		v.Range("replay.height", cfg.Replay.Height, 16, 8192)
		v.Range("replay.fps", cfg.Replay.FPS, 1, 240)
	}

	v.Range("platform.sdkVersion", cfg.Platform.SDKVersion, 1, 100)

	return v.Err()
}
