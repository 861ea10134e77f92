// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package quirks

import (
	"testing"

	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_NamePrefix(t *testing.T) {
	reg := Default()
	tests := []struct {
		name   string
		rule   string
		quirky bool
	}{
		{"OMX.qcom.video.decoder.hevc", "qualcomm", true},
		{"c2.qti.avc.decoder.low_latency", "qualcomm", true},
		{"OMX.Exynos.avc.dec", "exynos", false},
		{"c2.amlogic.hevc.decoder", "amlogic", false},
		{"c2.mtk.av1.decoder", "mediatek", false},
		{"c2.android.avc.decoder", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := reg.Classify(tt.name, ports.Fingerprint{Hardware: "qcom"})
			assert.Equal(t, tt.rule, c.Rule)
			assert.Equal(t, tt.quirky, c.Quirky())
			if tt.rule == "" {
				assert.Equal(t, SourceNone, c.Source, "fingerprint must not apply once a name is known")
			} else {
				assert.Equal(t, SourceName, c.Source)
			}
		})
	}
}

func TestClassify_FingerprintOnlyWithoutName(t *testing.T) {
	reg := Default()

	c := reg.Classify("", ports.Fingerprint{Manufacturer: "Oculus", Model: "Quest 3", Hardware: "kona"})
	assert.Equal(t, SourceFingerprint, c.Source)
	assert.Equal(t, "qualcomm-xr", c.Rule)
	assert.True(t, c.Quirky())
	assert.Empty(t, c.VendorLowLatencyKeys(), "fingerprint match never yields vendor keys")

	c = reg.Classify("", ports.Fingerprint{Manufacturer: "Google", Hardware: "tensor"})
	assert.Equal(t, SourceNone, c.Source)

	c = reg.Classify("", ports.Fingerprint{})
	assert.Equal(t, SourceNone, c.Source)
}

func TestClassify_VendorKeysFromNameMatch(t *testing.T) {
	c := Default().Classify("c2.exynos.hevc.decoder", ports.Fingerprint{})
	require.Len(t, c.VendorLowLatencyKeys(), 1)
	assert.Equal(t, "vendor.rtc-ext-dec-low-latency.enable", c.VendorLowLatencyKeys()[0].Key)
}

func TestRegistry_OverridesWin(t *testing.T) {
	reg := Default()
	reg.SetOverrides([]Rule{{
		Name:         "qcom-fixed-firmware",
		NamePrefixes: []string{"c2.qti.hevc"},
		Quirk:        Descriptor{Vendor: "qualcomm"},
	}})

	c := reg.Classify("c2.qti.hevc.decoder", ports.Fingerprint{})
	assert.Equal(t, "qcom-fixed-firmware", c.Rule)
	assert.False(t, c.Quirky())

	c = reg.Classify("c2.qti.avc.decoder", ports.Fingerprint{})
	assert.Equal(t, "qualcomm", c.Rule)

	reg.SetOverrides(nil)
	c = reg.Classify("c2.qti.hevc.decoder", ports.Fingerprint{})
	assert.Equal(t, "qualcomm", c.Rule)
}
