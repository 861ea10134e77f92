// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package negotiate

import (
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
)

// Request is everything the negotiator needs for one Setup.
type Request struct {
	Format           model.StreamFormat
	HDR              HDRState
	Color            model.ColorRequest
	LowLatency       bool
	AdaptivePlayback bool
}

// Options records which optional features were enabled.
type Options struct {
	LowLatency    bool     `json:"low_latency" yaml:"low_latency"`
	Adaptive      bool     `json:"adaptive" yaml:"adaptive"`
	OperatingRate bool     `json:"operating_rate" yaml:"operating_rate"`
	VendorKeys    []string `json:"vendor_keys,omitempty" yaml:"vendor_keys,omitempty"`
}

// Plan is the negotiated configuration for one decoder.
type Plan struct {
	Decoder string
	Codec   model.Codec
	Quirk   quirks.Classification
	Format  *ports.Format
	Color   model.ColorConfig
	Options Options
}

// Plan builds the format descriptor for a selected decoder.
func (n *Negotiator) Plan(req Request, decoder string, cls quirks.Classification) Plan {
	codec := req.Format.Codec()
	sdk := n.SDKVersion()

	f := ports.NewFormat()
	f.SetString(ports.KeyMIME, codec.MIME())
	f.SetInt32(ports.KeyWidth, int32(req.Format.Width))
	f.SetInt32(ports.KeyHeight, int32(req.Format.Height))
	if req.Format.FPS > 0 {
		f.SetInt32(ports.KeyFrameRate, int32(req.Format.FPS))
	}

	var opts Options
	if req.LowLatency {
		if sdk >= SDKLowLatency && n.supports(decoder, codec, ports.FeatureLowLatency) {
			f.SetInt32(ports.KeyLowLatency, 1)
			opts.LowLatency = true
		}
		for _, k := range cls.VendorLowLatencyKeys() {
			f.SetInt32(k.Key, k.Value)
			opts.VendorKeys = append(opts.VendorKeys, k.Key)
		}
	}
	if req.AdaptivePlayback && n.supports(decoder, codec, ports.FeatureAdaptivePlayback) {
		f.SetInt32(ports.KeyMaxWidth, int32(req.Format.Width))
		f.SetInt32(ports.KeyMaxHeight, int32(req.Format.Height))
		opts.Adaptive = true
	}
	if sdk >= SDKOperatingRate && n.supports(decoder, codec, ports.FeatureMaxOperatingRate) {
		f.SetInt32(ports.KeyOperatingRate, OperatingRateMax)
		f.SetInt32(ports.KeyPriority, 0)
		opts.OperatingRate = true
	}

	color := ResolveColor(req.Color, req.HDR, req.Format.VideoFormat, cls.Quirky(), sdk)
	ApplyColor(f, color)

	return Plan{
		Decoder: decoder,
		Codec:   codec,
		Quirk:   cls,
		Format:  f,
		Color:   color,
		Options: opts,
	}
}
