// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/streamdec/internal/log"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "STREAMDEC_"

// mergeEnv applies environment overrides on top of cfg.
func mergeEnv(cfg *AppConfig) {
	cfg.Log.Level = ParseString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Level = ParseString(EnvPrefix+"LOG_LEVEL", cfg.Log.Level)

	cfg.Decoder.LowLatency = ParseBool(EnvPrefix+"LOW_LATENCY", cfg.Decoder.LowLatency)
	cfg.Decoder.AdaptivePlayback = ParseBool(EnvPrefix+"ADAPTIVE_PLAYBACK", cfg.Decoder.AdaptivePlayback)
	cfg.Decoder.InputTimeout = ParseDuration(EnvPrefix+"INPUT_TIMEOUT", cfg.Decoder.InputTimeout)
	cfg.Decoder.OutputTimeout = ParseDuration(EnvPrefix+"OUTPUT_TIMEOUT", cfg.Decoder.OutputTimeout)
	cfg.Decoder.MaxRecoveryAttempts = ParseInt(EnvPrefix+"MAX_RECOVERY_ATTEMPTS", cfg.Decoder.MaxRecoveryAttempts)
	cfg.Decoder.QuirksFile = ParseString(EnvPrefix+"QUIRKS_FILE", cfg.Decoder.QuirksFile)
	cfg.Decoder.Preferred = ParseString(EnvPrefix+"PREFERRED_DECODER", cfg.Decoder.Preferred)
	cfg.Decoder.Unnamed = ParseBool(EnvPrefix+"DECODER_UNNAMED", cfg.Decoder.Unnamed)

	cfg.Color.Range = ParseString(EnvPrefix+"COLOR_RANGE", cfg.Color.Range)
	cfg.Color.HDR = ParseString(EnvPrefix+"HDR", cfg.Color.HDR)

	cfg.Telemetry.Enabled = ParseBool(EnvPrefix+"TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvPrefix+"OTLP_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvPrefix+"OTLP_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvPrefix+"TRACE_SAMPLING", cfg.Telemetry.SamplingRate)

	cfg.API.Listen = ParseString(EnvPrefix+"LISTEN", cfg.API.Listen)
	cfg.API.RateLimit = ParseInt(EnvPrefix+"RATE_LIMIT", cfg.API.RateLimit)

	cfg.Replay.Input = ParseString(EnvPrefix+"REPLAY_INPUT", cfg.Replay.Input)
	cfg.Replay.FPS = ParseInt(EnvPrefix+"REPLAY_FPS", cfg.Replay.FPS)

	cfg.Platform.SDKVersion = ParseInt(EnvPrefix+"SDK_VERSION", cfg.Platform.SDKVersion)
}

// ParseString reads a string from the environment or returns the default.
// It logs the source (environment or default).
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		if value == "" {
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		}
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
		return value
	}
	return defaultValue
}

// ParseInt reads an integer from the environment. Parse errors fall back to
// the default with a warning.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

// ParseDuration reads a Go duration ("10ms") from the environment.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
	return d
}

// ParseBool accepts true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		logger.Debug().Str("key", key).Bool("value", true).Str("source", "environment").Msg("using environment variable")
		return true
	case "false", "0", "no":
		logger.Debug().Str("key", key).Bool("value", false).Str("source", "environment").Msg("using environment variable")
		return false
	default:
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
}

// ParseFloat reads a float64 from the environment.
func ParseFloat(key string, defaultValue float64) float64 {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Float64("value", f).Str("source", "environment").Msg("using environment variable")
	return f
}
