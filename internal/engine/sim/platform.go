// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sim

import (
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

// Platform reports a configured SDK level and device fingerprint.
type Platform struct {
	SDK int
	FP  ports.Fingerprint
}

func (p Platform) SDKVersion() int                { return p.SDK }
func (p Platform) Fingerprint() ports.Fingerprint { return p.FP }

// Capabilities claims every feature for every decoder.
type Capabilities struct{}

func (Capabilities) Supports(string, model.Codec, ports.Feature) bool { return true }
