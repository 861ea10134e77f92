// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package negotiate

import (
	"testing"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/decoder/testkit"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sdrColor = model.ColorRequest{Range: int(model.ColorRangeLimited), Standard: 6, Transfer: 6, ColorSpace: 0}

func avc1080p() model.StreamFormat {
	return model.StreamFormat{VideoFormat: model.VideoFormatH264, Width: 1920, Height: 1080, FPS: 60}
}

func TestSelectDecoder_PreferredThenFallback(t *testing.T) {
	factory := testkit.NewFakeFactory("c2.qti.hevc.decoder.low_latency")

	n := New(factory, WithSelector(testkit.FakeSelector{Name: "c2.qti.hevc.decoder.low_latency"}))
	c, sel, err := n.SelectDecoder(model.CodecHEVC)
	require.NoError(t, err)
	assert.True(t, sel.Preferred)
	assert.Equal(t, "c2.qti.hevc.decoder.low_latency", c.Name())

	n = New(factory, WithSelector(testkit.FakeSelector{Name: "c2.missing.decoder"}))
	c, sel, err = n.SelectDecoder(model.CodecHEVC)
	require.NoError(t, err)
	assert.False(t, sel.Preferred)
	assert.Equal(t, "c2.android.hevc.decoder", c.Name())

	n = New(factory)
	_, sel, err = n.SelectDecoder(model.CodecAV1)
	require.NoError(t, err)
	assert.Equal(t, "c2.android.av1.decoder", sel.Name)
}

func TestSelectDecoder_Unavailable(t *testing.T) {
	factory := testkit.NewFakeFactory()
	factory.FailCreateByType(testkit.ErrInjected)

	_, _, err := New(factory).SelectDecoder(model.CodecAVC)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDecoderUnavailable)
}

func TestHDRState_ExplicitWins(t *testing.T) {
	assert.True(t, HDRState{}.Effective(model.VideoFormatH265Main10))
	assert.False(t, HDRState{}.Effective(model.VideoFormatH265))
	assert.False(t, HDRState{Explicit: true, Enabled: false}.Effective(model.VideoFormatAV1Main10))
	assert.True(t, HDRState{Explicit: true, Enabled: true}.Effective(model.VideoFormatH264))
}

func TestResolveColor_SDRIgnoresStoredHDRValues(t *testing.T) {
	cfg := ResolveColor(sdrColor, HDRState{Explicit: true}, model.VideoFormatH265, false, 34)
	assert.False(t, cfg.HDR)
	assert.Equal(t, model.ColorRangeLimited, cfg.Range)
	assert.Equal(t, model.ColorStandardBT709, cfg.Standard)
	assert.Equal(t, model.ColorTransferSDRVideo, cfg.Transfer)
	assert.Equal(t, model.DataSpaceSRGB, cfg.Target)
	assert.False(t, cfg.Suppressed)
}

func TestResolveColor_HDRSetsRangeOnly(t *testing.T) {
	meta := make([]byte, 24)
	cfg := ResolveColor(sdrColor, HDRState{Explicit: true, Enabled: true, Metadata: meta}, model.VideoFormatH265Main10, false, 34)
	assert.True(t, cfg.HDR)
	assert.True(t, cfg.HasRange)
	assert.False(t, cfg.HasStandard)
	assert.False(t, cfg.HasTransfer)
	assert.Len(t, cfg.HDRStaticInfo, 24)
	assert.Equal(t, model.DataSpaceBT2020PQ, cfg.Target)

	f := ports.NewFormat()
	ApplyColor(f, cfg)
	assert.Equal(t, []string{ports.KeyColorRange, ports.KeyHDRStaticInfo}, f.Keys())
}

func TestResolveColor_Suppression(t *testing.T) {
	assert.True(t, ResolveColor(sdrColor, HDRState{}, model.VideoFormatH264, true, 34).Suppressed)
	assert.True(t, ResolveColor(sdrColor, HDRState{}, model.VideoFormatH264, false, 23).Suppressed)
	assert.False(t, ResolveColor(sdrColor, HDRState{}, model.VideoFormatH264, false, 24).Suppressed)

	f := ports.NewFormat()
	ApplyColor(f, ResolveColor(sdrColor, HDRState{}, model.VideoFormatH264, true, 34))
	assert.Empty(t, f.Keys())
}

func TestPlan_AllFeatures(t *testing.T) {
	caps := testkit.NewFakeCaps(ports.FeatureLowLatency, ports.FeatureAdaptivePlayback, ports.FeatureMaxOperatingRate)
	n := New(testkit.NewFakeFactory(), WithCapabilities(caps), WithPlatform(testkit.FakePlatform{SDK: 33}))

	req := Request{Format: avc1080p(), Color: sdrColor, LowLatency: true, AdaptivePlayback: true}
	cls := n.Classify("c2.exynos.h264.decoder")
	p := n.Plan(req, "c2.exynos.h264.decoder", cls)

	want := map[string]any{
		ports.KeyMIME:                           model.MIMEAVC,
		ports.KeyWidth:                          int32(1920),
		ports.KeyHeight:                         int32(1080),
		ports.KeyFrameRate:                      int32(60),
		ports.KeyLowLatency:                     int32(1),
		ports.KeyMaxWidth:                       int32(1920),
		ports.KeyMaxHeight:                      int32(1080),
		ports.KeyOperatingRate:                  OperatingRateMax,
		ports.KeyPriority:                       int32(0),
		ports.KeyColorRange:                     int32(model.ColorRangeLimited),
		ports.KeyColorStandard:                  int32(model.ColorStandardBT709),
		ports.KeyColorTransfer:                  int32(model.ColorTransferSDRVideo),
		"vendor.rtc-ext-dec-low-latency.enable": int32(1),
	}
	if diff := cmp.Diff(want, p.Format.Map()); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, p.Options.LowLatency)
	assert.True(t, p.Options.Adaptive)
	assert.True(t, p.Options.OperatingRate)
	assert.Equal(t, []string{"vendor.rtc-ext-dec-low-latency.enable"}, p.Options.VendorKeys)
}

func TestPlan_GatesBySDKAndCapability(t *testing.T) {
	caps := testkit.NewFakeCaps(ports.FeatureLowLatency, ports.FeatureMaxOperatingRate)
	n := New(testkit.NewFakeFactory(), WithCapabilities(caps), WithPlatform(testkit.FakePlatform{SDK: 29}))

	p := n.Plan(Request{Format: avc1080p(), Color: sdrColor, LowLatency: true, AdaptivePlayback: true}, "c2.android.avc.decoder", quirks.Classification{})
	assert.False(t, p.Format.Has(ports.KeyLowLatency), "low-latency needs SDK 30")
	assert.False(t, p.Format.Has(ports.KeyMaxWidth), "adaptive not supported")
	assert.True(t, p.Format.Has(ports.KeyOperatingRate))

	n = New(testkit.NewFakeFactory(), WithPlatform(testkit.FakePlatform{SDK: 34}))
	p = n.Plan(Request{Format: avc1080p(), Color: sdrColor, LowLatency: true}, "c2.android.avc.decoder", quirks.Classification{})
	assert.False(t, p.Format.Has(ports.KeyLowLatency), "nil capability querier enables nothing")
	assert.False(t, p.Format.Has(ports.KeyOperatingRate))
}

func TestPlan_QuirkyDecoderSkipsColorKeys(t *testing.T) {
	n := New(testkit.NewFakeFactory())
	cls := n.Classify("c2.qti.avc.decoder")
	require.True(t, cls.Quirky())

	p := n.Plan(Request{Format: avc1080p(), Color: sdrColor, LowLatency: true}, "c2.qti.avc.decoder", cls)
	assert.False(t, p.Format.Has(ports.KeyColorStandard))
	assert.False(t, p.Format.Has(ports.KeyColorTransfer))
	assert.False(t, p.Format.Has(ports.KeyColorRange))
	assert.True(t, p.Format.Has("vendor.qti-ext-dec-low-latency.enable"))
	assert.True(t, p.Color.Suppressed)
}

func TestPlan_FingerprintQuirkNeverAddsVendorKeys(t *testing.T) {
	n := New(testkit.NewFakeFactory(), WithPlatform(testkit.FakePlatform{SDK: 32, FP: ports.Fingerprint{Hardware: "kona"}}))
	cls := n.Classify("")
	require.Equal(t, quirks.SourceFingerprint, cls.Source)

	p := n.Plan(Request{Format: avc1080p(), Color: sdrColor, LowLatency: true}, "", cls)
	for _, k := range p.Format.Keys() {
		assert.NotContains(t, k, "vendor.")
	}
	assert.True(t, p.Color.Suppressed)
}

func TestEnsureSurfaceDataSpace(t *testing.T) {
	s := testkit.NewFakeSurface("s1")
	require.NoError(t, s.SetDataSpace(model.DataSpaceBT2020PQ))

	fixed, err := EnsureSurfaceDataSpace(s, model.DataSpaceSRGB)
	require.NoError(t, err)
	assert.True(t, fixed, "lingering HDR space must be corrected")
	assert.Equal(t, model.DataSpaceSRGB, s.DataSpace())

	fixed, err = EnsureSurfaceDataSpace(s, model.DataSpaceSRGB)
	require.NoError(t, err)
	assert.False(t, fixed)

	s.FailSetDataSpace(testkit.ErrInjected)
	_, err = EnsureSurfaceDataSpace(s, model.DataSpaceBT2020PQ)
	assert.ErrorIs(t, err, testkit.ErrInjected)

	_, err = EnsureSurfaceDataSpace(nil, model.DataSpaceSRGB)
	assert.ErrorIs(t, err, model.ErrNoSurface)
}
