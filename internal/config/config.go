// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the daemon configuration. Precedence is
// ENV > YAML file > defaults.
package config

import "time"

// AppConfig is the resolved daemon configuration.
type AppConfig struct {
	Version   string          `yaml:"-"`
	Decoder   DecoderConfig   `yaml:"decoder"`
	Color     ColorConfig     `yaml:"color"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	API       APIConfig       `yaml:"api"`
	Replay    ReplayConfig    `yaml:"replay"`
	Platform  PlatformConfig  `yaml:"platform"`
}

// DecoderConfig tunes negotiation and the engine pipeline.
type DecoderConfig struct {
	LowLatency          bool          `yaml:"lowLatency"`
	AdaptivePlayback    bool          `yaml:"adaptivePlayback"`
	InputTimeout        time.Duration `yaml:"inputTimeout"`
	OutputTimeout       time.Duration `yaml:"outputTimeout"`
	MaxRecoveryAttempts int           `yaml:"maxRecoveryAttempts"`
	QuirksFile          string        `yaml:"quirksFile"`
	InputBuffers        int           `yaml:"inputBuffers"`
	InputBufferSize     int           `yaml:"inputBufferSize"`

	// Preferred is tried by name before the generic decoder for the codec.
	Preferred string `yaml:"preferred"`

	// Unnamed engines report no component name, so quirks resolve from the
	// platform fingerprint.
	Unnamed bool `yaml:"unnamed"`
}

// Color range and HDR preferences.
const (
	RangeLimited = "limited"
	RangeFull    = "full"

	HDRAuto = "auto"
	HDROn   = "on"
	HDROff  = "off"
)

// ColorConfig is the color configuration supplied before each Setup.
type ColorConfig struct {
	Range string `yaml:"range"`
	// HDR is "auto" (infer from the format), "on" or "off".
	HDR             string `yaml:"hdr"`
	HDRMetadataFile string `yaml:"hdrMetadataFile"`

	// HostCodecModes is the codec-mode mask the host reports, e.g. 0x20200.
	// Without the HDR10 bits HDR is turned off and 10-bit formats are
	// replaced by their 8-bit profile. Zero leaves HDR unrestricted.
	HostCodecModes uint32 `yaml:"hostCodecModes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
	// RateLimit is requests per minute per client IP.
	RateLimit int `yaml:"rateLimit"`
}

// ReplayConfig feeds an Annex-B elementary stream through the session.
type ReplayConfig struct {
	Input  string `yaml:"input"`
	Codec  string `yaml:"codec"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Loop   bool   `yaml:"loop"`
}

// PlatformConfig describes the host reported to the negotiator.
type PlatformConfig struct {
	SDKVersion   int    `yaml:"sdkVersion"`
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	Hardware     string `yaml:"hardware"`
	Board        string `yaml:"board"`
	SoC          string `yaml:"soc"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Decoder: DecoderConfig{
			LowLatency:          true,
			AdaptivePlayback:    true,
			InputTimeout:        10 * time.Millisecond,
			OutputTimeout:       10 * time.Millisecond,
			MaxRecoveryAttempts: 3,
			InputBuffers:        8,
			InputBufferSize:     2 << 20,
		},
		Color: ColorConfig{
			Range: RangeLimited,
			HDR:   HDRAuto,
		},
		Log: LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "development",
		},
		API: APIConfig{
			Listen:    ":8088",
			RateLimit: 120,
		},
		Replay: ReplayConfig{
			Codec:  "h264",
			Width:  1920,
			Height: 1080,
			FPS:    60,
		},
		Platform: PlatformConfig{SDKVersion: 34},
	}
}
