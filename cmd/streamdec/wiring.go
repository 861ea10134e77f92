// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/decoder/session"
	"github.com/ManuGH/streamdec/internal/engine/sim"
	sdlog "github.com/ManuGH/streamdec/internal/log"
)

// staticSelector prefers one decoder name for every codec.
type staticSelector string

func (s staticSelector) PreferredDecoder(model.Codec) (string, bool) {
	return string(s), s != ""
}

func platformFrom(cfg config.PlatformConfig) sim.Platform {
	return sim.Platform{
		SDK: cfg.SDKVersion,
		FP: ports.Fingerprint{
			Manufacturer: cfg.Manufacturer,
			Model:        cfg.Model,
			Hardware:     cfg.Hardware,
			Board:        cfg.Board,
			SoC:          cfg.SoC,
		},
	}
}

// sessionDeps builds the collaborators of the daemon's session over the sim
// engine. The preferred decoder is registered with the factory so it can be
// created by name.
func sessionDeps(cfg config.AppConfig, reg *quirks.Registry) session.Deps {
	var names []string
	if cfg.Decoder.Preferred != "" {
		names = append(names, cfg.Decoder.Preferred)
	}
	return session.Deps{
		Factory: sim.NewFactory(sim.Config{
			Buffers:    cfg.Decoder.InputBuffers,
			BufferSize: cfg.Decoder.InputBufferSize,
			Decoders:   names,
			Unnamed:    cfg.Decoder.Unnamed,
		}),
		Selector:     staticSelector(cfg.Decoder.Preferred),
		Capabilities: sim.Capabilities{},
		Platform:     platformFrom(cfg.Platform),
		Quirks:       reg,
	}
}

func sessionConfig(cfg config.DecoderConfig) session.Config {
	return session.Config{
		LowLatency:          cfg.LowLatency,
		AdaptivePlayback:    cfg.AdaptivePlayback,
		InputTimeout:        cfg.InputTimeout,
		OutputTimeout:       cfg.OutputTimeout,
		MaxRecoveryAttempts: cfg.MaxRecoveryAttempts,
	}
}

// loadQuirks returns the built-in table with the configured overrides in front.
func loadQuirks(reg *quirks.Registry, path string) error {
	if path == "" {
		reg.SetOverrides(nil)
		return nil
	}
	rules, err := quirks.LoadFile(path)
	if err != nil {
		return err
	}
	reg.SetOverrides(rules)
	return nil
}

// colorRequest maps the color section to a SetColorConfig call. HDR streams
// get BT.2020 with PQ transfer; everything else BT.709.
func colorRequest(cfg config.ColorConfig) model.ColorRequest {
	req := model.ColorRequest{
		Range:      int(model.ColorRangeLimited),
		Standard:   int(model.ColorStandardBT709),
		Transfer:   int(model.ColorTransferSDRVideo),
		ColorSpace: int(model.DataSpaceSRGB),
	}
	if cfg.Range == config.RangeFull {
		req.Range = int(model.ColorRangeFull)
	}
	if cfg.HDR == config.HDROn {
		req.Standard = int(model.ColorStandardBT2020)
		req.Transfer = int(model.ColorTransferST2084)
		req.ColorSpace = int(model.DataSpaceBT2020PQ)
	}
	return req
}

// effectiveColor turns HDR off when the host cannot stream HDR10.
func effectiveColor(cfg config.ColorConfig) (config.ColorConfig, bool) {
	if model.HostCodecModes(cfg.HostCodecModes).SupportsHDR() || cfg.HDR == config.HDROff {
		return cfg, false
	}
	cfg.HDR = config.HDROff
	return cfg, true
}

// streamFormat is the format requested from the host given its codec modes.
func streamFormat(vf model.VideoFormat, color config.ColorConfig) model.VideoFormat {
	if model.HostCodecModes(color.HostCodecModes).SupportsHDR() {
		return vf
	}
	return vf.Strip10Bit()
}

// applyColor pushes the color section into the session. "auto" leaves HDR
// to format inference.
func applyColor(ctrl *session.Controller, cfg config.ColorConfig) error {
	cfg, downgraded := effectiveColor(cfg)
	if downgraded {
		logger := sdlog.WithComponent("daemon")
		logger.Warn().
			Str(sdlog.FieldEvent, "color.hdr_unsupported").
			Str("host_codec_modes", fmt.Sprintf("0x%x", cfg.HostCodecModes)).
			Msg("host does not support HDR10, streaming SDR")
	}
	req := colorRequest(cfg)
	ctrl.SetColorConfig(req.Range, req.Standard, req.Transfer, req.ColorSpace)

	switch cfg.HDR {
	case config.HDROn:
		var meta []byte
		if cfg.HDRMetadataFile != "" {
			data, err := os.ReadFile(cfg.HDRMetadataFile)
			if err != nil {
				return fmt.Errorf("read hdr metadata: %w", err)
			}
			if len(data) > model.HDRMetadataCapacity {
				return fmt.Errorf("%w: %d bytes", model.ErrHDRMetadataTooLong, len(data))
			}
			meta = data
		}
		ctrl.SetHdrMode(true, meta)
	case config.HDROff:
		ctrl.SetHdrMode(false, nil)
	default:
		ctrl.ResetHdrMode()
	}
	return nil
}

var videoFormatNames = map[string]model.VideoFormat{
	"h264":        model.VideoFormatH264,
	"avc":         model.VideoFormatH264,
	"h264-high44": model.VideoFormatH264High44,
	"h265":        model.VideoFormatH265,
	"hevc":        model.VideoFormatH265,
	"hevc-main10": model.VideoFormatH265Main10,
	"av1":         model.VideoFormatAV1Main8,
	"av1-main10":  model.VideoFormatAV1Main10,
}

// parseVideoFormat accepts a codec name or a numeric format mask such as 0x100.
func parseVideoFormat(s string) (model.VideoFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if vf, ok := videoFormatNames[s]; ok {
		return vf, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: unknown video format %q", model.ErrInvalidFormat, s)
	}
	return model.VideoFormat(n), nil
}
