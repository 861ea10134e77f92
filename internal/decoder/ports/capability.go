// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import "github.com/ManuGH/streamdec/internal/decoder/model"

// Feature is an optional decoder capability probed through the host runtime.
type Feature string

const (
	FeatureLowLatency       Feature = "low-latency"
	FeatureAdaptivePlayback Feature = "adaptive-playback"
	FeatureMaxOperatingRate Feature = "max-operating-rate"
)

// CapabilityQuerier answers "does decoder D support feature F for codec C".
// Answers are best effort; false means "do not enable".
type CapabilityQuerier interface {
	Supports(decoder string, codec model.Codec, feature Feature) bool
}

// DecoderSelector returns the host's preferred decoder for a codec, if any.
type DecoderSelector interface {
	PreferredDecoder(codec model.Codec) (string, bool)
}

// Fingerprint identifies the device a session runs on.
type Fingerprint struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Hardware     string `json:"hardware" yaml:"hardware"`
	Board        string `json:"board" yaml:"board"`
	SoC          string `json:"soc" yaml:"soc"`
}

// IsZero reports whether no identifier is known.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Platform exposes the host platform version and hardware identifiers.
type Platform interface {
	SDKVersion() int
	Fingerprint() Fingerprint
}
