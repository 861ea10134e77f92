// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/decoder/session"
	"github.com/ManuGH/streamdec/internal/engine/sim"
)

func TestParseVideoFormat(t *testing.T) {
	cases := map[string]model.VideoFormat{
		"h264":        model.VideoFormatH264,
		"HEVC":        model.VideoFormatH265,
		" av1-main10": model.VideoFormatAV1Main10,
		"0x100":       model.VideoFormatH265,
		"512":         model.VideoFormatH265Main10,
	}
	for in, want := range cases {
		got, err := parseVideoFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "vp9", "0"} {
		_, err := parseVideoFormat(bad)
		assert.ErrorIs(t, err, model.ErrInvalidFormat, bad)
	}
}

func TestColorRequest(t *testing.T) {
	sdr := colorRequest(config.ColorConfig{Range: config.RangeLimited, HDR: config.HDRAuto})
	assert.Equal(t, model.ColorRequest{
		Range:      int(model.ColorRangeLimited),
		Standard:   int(model.ColorStandardBT709),
		Transfer:   int(model.ColorTransferSDRVideo),
		ColorSpace: int(model.DataSpaceSRGB),
	}, sdr)

	hdr := colorRequest(config.ColorConfig{Range: config.RangeFull, HDR: config.HDROn})
	assert.Equal(t, int(model.ColorRangeFull), hdr.Range)
	assert.Equal(t, int(model.ColorStandardBT2020), hdr.Standard)
	assert.Equal(t, int(model.ColorTransferST2084), hdr.Transfer)
	assert.True(t, hdr.HasTriple())
	assert.True(t, hdr.HasColorSpace())
}

func TestLoadQuirks(t *testing.T) {
	reg := quirks.Default()
	builtin := len(reg.Rules())

	path := filepath.Join(t.TempDir(), "quirks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - name: lab-board
    name_prefixes: ["omx.lab."]
    quirk:
      vendor: lab
      ignores_color_keys: true
`), 0o600))

	require.NoError(t, loadQuirks(reg, path))
	assert.Len(t, reg.Rules(), builtin+1)
	cls := reg.Classify("OMX.lab.avc.decoder", ports.Fingerprint{})
	assert.Equal(t, "lab-board", cls.Rule)
	assert.True(t, cls.Quirky())

	require.NoError(t, loadQuirks(reg, ""))
	assert.Len(t, reg.Rules(), builtin)

	assert.Error(t, loadQuirks(reg, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestStaticSelector(t *testing.T) {
	name, ok := staticSelector("").PreferredDecoder(model.CodecAVC)
	assert.False(t, ok)
	assert.Empty(t, name)

	name, ok = staticSelector("omx.qcom.video.decoder.avc").PreferredDecoder(model.CodecAVC)
	assert.True(t, ok)
	assert.Equal(t, "omx.qcom.video.decoder.avc", name)
}

func setupWith(t *testing.T, cfg config.AppConfig) session.Snapshot {
	t.Helper()
	ctrl, err := session.New(sessionDeps(cfg, quirks.Default()), sessionConfig(cfg.Decoder))
	require.NoError(t, err)
	defer ctrl.Close()

	ctrl.SetSurface(sim.NewSurface("display-test"))
	require.NoError(t, applyColor(ctrl, cfg.Color))
	require.Equal(t, model.SetupOK, ctrl.Setup(model.VideoFormatH264, 1280, 720, 60))
	return ctrl.Snapshot()
}

func TestSessionDeps_DefaultDecoder(t *testing.T) {
	cfg := config.Defaults()
	cfg.Platform.Manufacturer = "Oculus"

	snap := setupWith(t, cfg)
	assert.Equal(t, sim.DecoderName(model.CodecAVC), snap.Decoder)
	assert.Empty(t, snap.Quirk)
	assert.False(t, snap.ColorSuppressed)
}

func TestSessionDeps_PreferredDecoderHitsNameRule(t *testing.T) {
	cfg := config.Defaults()
	cfg.Decoder.Preferred = "c2.qti.avc.decoder"

	snap := setupWith(t, cfg)
	assert.Equal(t, "c2.qti.avc.decoder", snap.Decoder)
	assert.Equal(t, "qualcomm", snap.Quirk)
	assert.True(t, snap.Quirky)
	assert.True(t, snap.ColorSuppressed)
}

func TestSessionDeps_UnnamedEngineUsesFingerprint(t *testing.T) {
	cfg := config.Defaults()
	cfg.Decoder.Unnamed = true
	cfg.Platform.Manufacturer = "Oculus"
	cfg.Platform.Hardware = "kona"

	snap := setupWith(t, cfg)
	assert.Empty(t, snap.Decoder)
	assert.Equal(t, "qualcomm-xr", snap.Quirk)
	assert.True(t, snap.ColorSuppressed)
}

func TestEffectiveColor_HostWithoutHDR10(t *testing.T) {
	on := config.ColorConfig{Range: config.RangeLimited, HDR: config.HDROn}

	got, downgraded := effectiveColor(on)
	assert.False(t, downgraded, "unreported modes leave HDR alone")
	assert.Equal(t, config.HDROn, got.HDR)

	on.HostCodecModes = 0x20200
	_, downgraded = effectiveColor(on)
	assert.False(t, downgraded)

	on.HostCodecModes = 0x0101
	got, downgraded = effectiveColor(on)
	assert.True(t, downgraded)
	assert.Equal(t, config.HDROff, got.HDR)
	assert.Equal(t, int(model.ColorStandardBT709), colorRequest(got).Standard)

	auto := config.ColorConfig{HDR: config.HDRAuto, HostCodecModes: 0x0101}
	got, _ = effectiveColor(auto)
	assert.Equal(t, config.HDROff, got.HDR)

	assert.Equal(t, model.VideoFormatH265, streamFormat(model.VideoFormatH265Main10, auto))
	assert.Equal(t, model.VideoFormatH265Main10, streamFormat(model.VideoFormatH265Main10, config.ColorConfig{}))
}

func TestApplyColor_HostWithoutHDR10ForcesSDR(t *testing.T) {
	cfg := config.Defaults()
	ctrl, err := session.New(sessionDeps(cfg, quirks.Default()), sessionConfig(cfg.Decoder))
	require.NoError(t, err)
	defer ctrl.Close()
	ctrl.SetSurface(sim.NewSurface("display-test"))

	require.NoError(t, applyColor(ctrl, config.ColorConfig{Range: config.RangeFull, HDR: config.HDROn, HostCodecModes: 0x0101}))
	require.Equal(t, model.SetupOK, ctrl.Setup(model.VideoFormatH265Main10, 3840, 2160, 60))
	snap := ctrl.Snapshot()
	assert.False(t, snap.HDR)
	assert.False(t, snap.HDRRequested)
}

func TestApplyColor_AutoAfterOnReturnsToInference(t *testing.T) {
	cfg := config.Defaults()
	ctrl, err := session.New(sessionDeps(cfg, quirks.Default()), sessionConfig(cfg.Decoder))
	require.NoError(t, err)
	defer ctrl.Close()
	ctrl.SetSurface(sim.NewSurface("display-test"))

	require.NoError(t, applyColor(ctrl, config.ColorConfig{Range: config.RangeLimited, HDR: config.HDROn}))
	require.Equal(t, model.SetupOK, ctrl.Setup(model.VideoFormatH264, 1280, 720, 60))
	require.True(t, ctrl.Snapshot().HDR)

	require.NoError(t, applyColor(ctrl, config.ColorConfig{Range: config.RangeLimited, HDR: config.HDRAuto}))
	assert.Equal(t, model.StateUninitialized, ctrl.State())

	require.Equal(t, model.SetupOK, ctrl.Setup(model.VideoFormatH264, 1280, 720, 60))
	assert.False(t, ctrl.Snapshot().HDR)
}
