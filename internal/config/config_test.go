// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "streamdec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsValidate(t *testing.T) {
	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, 10*time.Millisecond, cfg.Decoder.InputTimeout)
	assert.Equal(t, 3, cfg.Decoder.MaxRecoveryAttempts)
	require.NoError(t, Validate(cfg))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
decoder:
  lowLatency: false
  inputTimeout: 20ms
color:
  range: full
  hdr: "on"
api:
  listen: "127.0.0.1:9000"
`)
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.False(t, cfg.Decoder.LowLatency)
	assert.True(t, cfg.Decoder.AdaptivePlayback, "untouched keys keep defaults")
	assert.Equal(t, 20*time.Millisecond, cfg.Decoder.InputTimeout)
	assert.Equal(t, RangeFull, cfg.Color.Range)
	assert.Equal(t, HDROn, cfg.Color.HDR)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.Listen)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := writeFile(t, "decoder:\n  maxRecoveryAttempts: 5\nlog:\n  level: warn\n")
	t.Setenv("STREAMDEC_MAX_RECOVERY_ATTEMPTS", "7")
	t.Setenv("STREAMDEC_LOW_LATENCY", "no")
	t.Setenv("STREAMDEC_OUTPUT_TIMEOUT", "bogus")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Decoder.MaxRecoveryAttempts)
	assert.False(t, cfg.Decoder.LowLatency)
	assert.Equal(t, 10*time.Millisecond, cfg.Decoder.OutputTimeout, "invalid env falls back")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_StrictParsing(t *testing.T) {
	_, err := NewLoader(writeFile(t, "decoder:\n  lowLatancy: true\n"), "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)

	_, err = NewLoader(writeFile(t, "log:\n  level: info\n---\nlog:\n  level: debug\n"), "").Load()
	assert.ErrorIs(t, err, ErrMultipleDocuments)

	cfg, err := NewLoader(writeFile(t, ""), "").Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().Decoder, cfg.Decoder)

	_, err = NewLoader(filepath.Join(t.TempDir(), "missing.yaml"), "").Load()
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Defaults()
	cfg.Decoder.MaxRecoveryAttempts = 0
	cfg.Decoder.InputTimeout = 0
	cfg.Color.Range = "wide"
	cfg.Color.HDR = "maybe"
	cfg.Log.Level = "loud"
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "zipkin"
	cfg.Telemetry.SamplingRate = 2
	cfg.API.Listen = "nope"
	cfg.Replay.Input = filepath.Join(t.TempDir(), "missing.h264")

	err := Validate(cfg)
	require.Error(t, err)
	for _, field := range []string{
		"decoder.maxRecoveryAttempts",
		"decoder.inputTimeout",
		"color.range",
		"color.hdr",
		"log.level",
		"telemetry.exporter",
		"telemetry.samplingRate",
		"api.listen",
		"replay.input",
	} {
		assert.Contains(t, err.Error(), field)
	}
}
