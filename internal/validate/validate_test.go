// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Accumulates(t *testing.T) {
	v := New()
	v.Range("decoder.maxRecoveryAttempts", 0, 1, 10)
	v.FloatRange("telemetry.samplingRate", 1.5, 0, 1)
	v.DurationRange("decoder.inputTimeout", 0, time.Millisecond, time.Second)
	v.NotEmpty("api.listen", " ")
	v.OneOf("telemetry.exporter", "zipkin", []string{"grpc", "http"})
	v.Positive("replay.fps", -1)

	require.False(t, v.IsValid())
	err := v.Err()
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors(), 6)
	assert.Contains(t, err.Error(), "decoder.maxRecoveryAttempts")
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_Valid(t *testing.T) {
	v := New()
	v.Range("x", 3, 1, 10)
	v.OneOf("y", "grpc", []string{"grpc", "http"})
	v.ListenAddr("api.listen", ":8080")
	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestValidator_ListenAddr(t *testing.T) {
	for addr, ok := range map[string]bool{
		":8080":          true,
		"127.0.0.1:9000": true,
		"localhost":      false,
		":99999":         false,
		":http":          false,
	} {
		v := New()
		v.ListenAddr("listen", addr)
		assert.Equal(t, ok, v.IsValid(), addr)
	}
}

func TestValidator_FileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stream.h264")
	require.NoError(t, os.WriteFile(file, []byte{0}, 0o600))

	v := New()
	v.FileExists("replay.input", "")
	v.FileExists("replay.input", file)
	assert.True(t, v.IsValid())

	v.FileExists("replay.input", dir)
	v.FileExists("replay.input", filepath.Join(dir, "missing"))
	assert.Len(t, v.Errors(), 2)
}

func TestParseLogLevel(t *testing.T) {
	l, err := ParseLogLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, l)

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
