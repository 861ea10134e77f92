// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package negotiate selects a decoder and computes the format descriptor,
// optional features and color configuration a session is configured with.
package negotiate

import (
	"fmt"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/log"
)

// Platform version gates.
const (
	SDKOperatingRate = 23
	SDKColorKeys     = 24
	SDKLowLatency    = 30

	// DefaultSDKVersion is assumed when no platform collaborator is wired.
	DefaultSDKVersion = 34
)

// OperatingRateMax asks the engine to run as fast as it can.
const OperatingRateMax int32 = 32767

// Negotiator is stateless apart from its collaborators.
type Negotiator struct {
	factory  ports.Factory
	selector ports.DecoderSelector
	caps     ports.CapabilityQuerier
	platform ports.Platform
	quirks   *quirks.Registry
}

// Option configures a Negotiator.
type Option func(*Negotiator)

func WithSelector(s ports.DecoderSelector) Option {
	return func(n *Negotiator) { n.selector = s }
}

func WithCapabilities(c ports.CapabilityQuerier) Option {
	return func(n *Negotiator) { n.caps = c }
}

func WithPlatform(p ports.Platform) Option {
	return func(n *Negotiator) { n.platform = p }
}

func WithQuirks(r *quirks.Registry) Option {
	return func(n *Negotiator) {
		if r != nil {
			n.quirks = r
		}
	}
}

// New returns a negotiator. Missing collaborators degrade to defaults.
func New(factory ports.Factory, opts ...Option) *Negotiator {
	n := &Negotiator{factory: factory, quirks: quirks.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SDKVersion returns the host platform version.
func (n *Negotiator) SDKVersion() int {
	if n.platform == nil {
		return DefaultSDKVersion
	}
	return n.platform.SDKVersion()
}

func (n *Negotiator) fingerprint() ports.Fingerprint {
	if n.platform == nil {
		return ports.Fingerprint{}
	}
	return n.platform.Fingerprint()
}

// Selection describes how a decoder was chosen.
type Selection struct {
	Name      string
	Preferred bool
}

// SelectDecoder creates an engine for the codec. The selector's preferred
// decoder is tried first; creation by MIME type is the fallback.
func (n *Negotiator) SelectDecoder(codec model.Codec) (ports.Codec, Selection, error) {
	logger := log.WithComponent("decoder.negotiate")

	if n.selector != nil {
		if name, ok := n.selector.PreferredDecoder(codec); ok && name != "" {
			c, err := n.factory.CreateByName(name)
			if err == nil {
				return c, Selection{Name: c.Name(), Preferred: true}, nil
			}
			logger.Warn().Err(err).
				Str(log.FieldDecoder, name).
				Str(log.FieldCodec, string(codec)).
				Msg("preferred decoder unavailable, falling back to default")
		}
	}

	c, err := n.factory.CreateByType(codec.MIME())
	if err != nil {
		return nil, Selection{}, fmt.Errorf("%w: %s: %v", model.ErrDecoderUnavailable, codec.MIME(), err)
	}
	return c, Selection{Name: c.Name()}, nil
}

// Classify runs the quirk table against the decoder name and the platform fingerprint.
func (n *Negotiator) Classify(decoderName string) quirks.Classification {
	return n.quirks.Classify(decoderName, n.fingerprint())
}

func (n *Negotiator) supports(decoder string, codec model.Codec, f ports.Feature) bool {
	if n.caps == nil {
		return false
	}
	return n.caps.Supports(decoder, codec, f)
}
