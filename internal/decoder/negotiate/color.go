// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package negotiate

import (
	"fmt"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

// HDRState is the caller's HDR intent.
type HDRState struct {
	Enabled  bool
	Explicit bool
	Metadata []byte
}

// Effective resolves HDR for a format. An explicit SetHdrMode always wins;
// 10-bit inference applies only while HDR was never set.
func (h HDRState) Effective(f model.VideoFormat) bool {
	if h.Explicit {
		return h.Enabled
	}
	return f.Is10Bit()
}

// TargetDataSpace maps the HDR mode to the surface color space.
func TargetDataSpace(hdr bool) model.DataSpace {
	if hdr {
		return model.DataSpaceBT2020PQ
	}
	return model.DataSpaceSRGB
}

// ResolveColor computes the color configuration. HDR sets the range only so
// the engine infers standard and transfer from the bitstream. SDR always
// writes the BT.709 reference triple, ignoring any stored HDR-oriented
// standard or transfer. Keys are suppressed for quirky decoders and for
// platforms without color key support.
func ResolveColor(req model.ColorRequest, hdr HDRState, vf model.VideoFormat, quirky bool, sdk int) model.ColorConfig {
	effective := hdr.Effective(vf)
	cfg := model.ColorConfig{
		HDR:        effective,
		Range:      model.ColorRange(req.Range),
		HasRange:   true,
		Suppressed: quirky || sdk < SDKColorKeys,
		Target:     TargetDataSpace(effective),
	}
	if effective {
		if len(hdr.Metadata) > 0 {
			cfg.HDRStaticInfo = append([]byte(nil), hdr.Metadata...)
		}
		return cfg
	}
	cfg.Standard = model.ColorStandardBT709
	cfg.Transfer = model.ColorTransferSDRVideo
	cfg.HasStandard = true
	cfg.HasTransfer = true
	return cfg
}

// ApplyColor writes the color keys into the format unless suppressed.
func ApplyColor(f *ports.Format, cfg model.ColorConfig) {
	if cfg.Suppressed {
		return
	}
	if cfg.HasRange {
		f.SetInt32(ports.KeyColorRange, int32(cfg.Range))
	}
	if cfg.HasStandard {
		f.SetInt32(ports.KeyColorStandard, int32(cfg.Standard))
	}
	if cfg.HasTransfer {
		f.SetInt32(ports.KeyColorTransfer, int32(cfg.Transfer))
	}
	if cfg.HDR && len(cfg.HDRStaticInfo) > 0 {
		f.SetBuffer(ports.KeyHDRStaticInfo, cfg.HDRStaticInfo)
	}
}

// EnsureSurfaceDataSpace asserts the surface color space matches target and
// corrects it when it does not. It reports whether a correction was made.
func EnsureSurfaceDataSpace(s ports.Surface, target model.DataSpace) (bool, error) {
	if s == nil {
		return false, model.ErrNoSurface
	}
	if s.DataSpace() == target {
		return false, nil
	}
	if err := s.SetDataSpace(target); err != nil {
		return false, fmt.Errorf("set surface data space %s: %w", target, err)
	}
	return true, nil
}
