// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
)

func TestBuildReport_GenericDecoder(t *testing.T) {
	cfg := config.Defaults()
	rep, err := buildReport(cfg, reportRequest{
		Stream:     model.StreamFormat{VideoFormat: model.VideoFormatH265, Width: 3840, Height: 2160, FPS: 60},
		LowLatency: true,
		Adaptive:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "c2.sim.hevc.decoder", rep.Decoder.Name)
	assert.False(t, rep.Decoder.Preferred)
	assert.Equal(t, quirks.SourceNone, rep.Decoder.Match)
	assert.Equal(t, "0x0100", rep.Stream.VideoFormat)
	assert.False(t, rep.Color.HDR)
	assert.Equal(t, model.DataSpaceSRGB.String(), rep.Color.Target)
	assert.True(t, rep.Options.LowLatency)
	assert.True(t, rep.Options.Adaptive)
	assert.Equal(t, model.MIMEHEVC, rep.Format[ports.KeyMIME])
}

func TestBuildReport_QuirkyPreferredDecoder(t *testing.T) {
	cfg := config.Defaults()
	rep, err := buildReport(cfg, reportRequest{
		Stream:     model.StreamFormat{VideoFormat: model.VideoFormatH265Main10, Width: 1920, Height: 1080, FPS: 30},
		Decoder:    "OMX.qcom.video.decoder.hevc",
		LowLatency: true,
	})
	require.NoError(t, err)

	assert.True(t, rep.Decoder.Preferred)
	assert.Equal(t, "qualcomm", rep.Decoder.Quirk)
	assert.True(t, rep.Decoder.Quirky)
	assert.True(t, rep.Color.HDR)
	assert.True(t, rep.Color.Suppressed)
	assert.Equal(t, model.DataSpaceBT2020PQ.String(), rep.Color.Target)
	assert.NotEmpty(t, rep.Options.VendorKeys)
}

func TestBuildReport_HDROverride(t *testing.T) {
	rep, err := buildReport(config.Defaults(), reportRequest{
		Stream: model.StreamFormat{VideoFormat: model.VideoFormatH265Main10, Width: 1920, Height: 1080, FPS: 30},
		HDR:    config.HDROff,
	})
	require.NoError(t, err)
	assert.False(t, rep.Color.HDR)
}

func TestBuildReport_InvalidStream(t *testing.T) {
	_, err := buildReport(config.Defaults(), reportRequest{
		Stream: model.StreamFormat{VideoFormat: model.VideoFormatH264, Width: 0, Height: 1080},
	})
	assert.Error(t, err)
}

func TestRunReport_WritesFileAtomically(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.yaml")
	var stdout, stderr bytes.Buffer

	code := runReport([]string{"-format", "0x100", "-width", "1280", "-height", "720", "-fps", "50", "-out", out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	stream := got["stream"].(map[string]any)
	assert.Equal(t, "hevc", stream["codec"])
	assert.Equal(t, 1280, stream["width"])
	decoder := got["decoder"].(map[string]any)
	assert.Equal(t, "c2.sim.hevc.decoder", decoder["name"])

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRunReport_Stdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, runReport([]string{"-format", "h264"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "0x0001")
	assert.Contains(t, stdout.String(), "c2.sim.avc.decoder")
}

func TestRunReport_BadFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, runReport([]string{"-format", "vp8"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown video format")
}
