// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/negotiate"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/engine/sim"
	"github.com/ManuGH/streamdec/internal/version"
)

// Report is the negotiation outcome for one stream format on this host.
type Report struct {
	GeneratedAt time.Time         `yaml:"generated_at"`
	Version     string            `yaml:"version"`
	SDKVersion  int               `yaml:"sdk_version"`
	Stream      reportStream      `yaml:"stream"`
	Decoder     reportDecoder     `yaml:"decoder"`
	Color       reportColor       `yaml:"color"`
	Options     negotiate.Options `yaml:"options"`
	Format      map[string]any    `yaml:"format"`
}

type reportStream struct {
	VideoFormat string      `yaml:"video_format"`
	Codec       model.Codec `yaml:"codec"`
	Width       int         `yaml:"width"`
	Height      int         `yaml:"height"`
	FPS         int         `yaml:"fps"`
}

type reportDecoder struct {
	Name      string             `yaml:"name"`
	Preferred bool               `yaml:"preferred"`
	Quirk     string             `yaml:"quirk,omitempty"`
	Match     quirks.MatchSource `yaml:"match"`
	Quirky    bool               `yaml:"quirky"`
}

type reportColor struct {
	HDR        bool   `yaml:"hdr"`
	Suppressed bool   `yaml:"suppressed"`
	Target     string `yaml:"target_dataspace"`
}

type reportRequest struct {
	Stream     model.StreamFormat
	Decoder    string
	HDR        string
	LowLatency bool
	Adaptive   bool
}

// buildReport negotiates without configuring an engine.
func buildReport(cfg config.AppConfig, req reportRequest) (Report, error) {
	if err := req.Stream.Validate(); err != nil {
		return Report{}, err
	}
	reg := quirks.Default()
	if err := loadQuirks(reg, cfg.Decoder.QuirksFile); err != nil {
		return Report{}, err
	}
	var extra []string
	if req.Decoder != "" {
		extra = append(extra, req.Decoder)
	}
	platform := platformFrom(cfg.Platform)
	neg := negotiate.New(
		sim.NewFactory(sim.Config{Buffers: 1, BufferSize: 1, Decoders: extra}),
		negotiate.WithSelector(staticSelector(req.Decoder)),
		negotiate.WithCapabilities(sim.Capabilities{}),
		negotiate.WithPlatform(platform),
		negotiate.WithQuirks(reg),
	)

	codec, sel, err := neg.SelectDecoder(req.Stream.Codec())
	if err != nil {
		return Report{}, err
	}
	_ = codec.Release()

	colorCfg := cfg.Color
	if req.HDR != "" {
		colorCfg.HDR = req.HDR
	}
	hdr := negotiate.HDRState{}
	switch colorCfg.HDR {
	case config.HDROn:
		hdr = negotiate.HDRState{Enabled: true, Explicit: true}
	case config.HDROff:
		hdr = negotiate.HDRState{Explicit: true}
	}

	cls := neg.Classify(sel.Name)
	plan := neg.Plan(negotiate.Request{
		Format:           req.Stream,
		HDR:              hdr,
		Color:            colorRequest(colorCfg),
		LowLatency:       req.LowLatency,
		AdaptivePlayback: req.Adaptive,
	}, sel.Name, cls)

	return Report{
		GeneratedAt: time.Now().UTC(),
		Version:     version.Version,
		SDKVersion:  neg.SDKVersion(),
		Stream: reportStream{
			VideoFormat: fmt.Sprintf("0x%04x", int(req.Stream.VideoFormat)),
			Codec:       req.Stream.Codec(),
			Width:       req.Stream.Width,
			Height:      req.Stream.Height,
			FPS:         req.Stream.FPS,
		},
		Decoder: reportDecoder{
			Name:      sel.Name,
			Preferred: sel.Preferred,
			Quirk:     cls.Rule,
			Match:     cls.Source,
			Quirky:    cls.Quirky(),
		},
		Color: reportColor{
			HDR:        plan.Color.HDR,
			Suppressed: plan.Color.Suppressed,
			Target:     plan.Color.Target.String(),
		},
		Options: plan.Options,
		Format:  plan.Format.Map(),
	}, nil
}

// writeReport replaces path atomically; an empty path writes to w.
func writeReport(rep Report, path string, w io.Writer) error {
	if path == "" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = pf.Cleanup() }()

	enc := yaml.NewEncoder(pf)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func runReport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("streamdec report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to config file (YAML)")
	formatFlag := fs.String("format", "h264", "video format name or mask (e.g. hevc, 0x100)")
	width := fs.Int("width", 1920, "stream width")
	height := fs.Int("height", 1080, "stream height")
	fps := fs.Int("fps", 60, "stream frame rate")
	decoder := fs.String("decoder", "", "preferred decoder name")
	hdr := fs.String("hdr", "", "override color.hdr (auto, on, off)")
	out := fs.String("out", "", "output path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(*configPath, version.Version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	vf, err := parseVideoFormat(*formatFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rep, err := buildReport(cfg, reportRequest{
		Stream:     model.StreamFormat{VideoFormat: vf, Width: *width, Height: *height, FPS: *fps},
		Decoder:    *decoder,
		HDR:        *hdr,
		LowLatency: cfg.Decoder.LowLatency,
		Adaptive:   cfg.Decoder.AdaptivePlayback,
	})
	if err != nil {
		fmt.Fprintf(stderr, "negotiate: %v\n", err)
		return 1
	}
	if err := writeReport(rep, *out, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *out != "" {
		fmt.Fprintf(stdout, "report written to %s\n", *out)
	}
	return 0
}
