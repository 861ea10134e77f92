// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package quirks maps decoder names and device fingerprints to known vendor
// limitations. Rules are evaluated in order; the first match wins.
package quirks

import (
	"strings"
	"sync"

	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

// VendorKey is one vendor-specific format option.
type VendorKey struct {
	Key   string `json:"key" yaml:"key"`
	Value int32  `json:"value" yaml:"value"`
}

// Descriptor lists what is known about a decoder family.
type Descriptor struct {
	Vendor string `json:"vendor" yaml:"vendor"`
	// IgnoresColorKeys marks decoders that mishandle the standard color keys.
	IgnoresColorKeys bool        `json:"ignores_color_keys" yaml:"ignores_color_keys"`
	LowLatencyKeys   []VendorKey `json:"low_latency_keys,omitempty" yaml:"low_latency_keys,omitempty"`
}

// Rule matches either decoder name prefixes or fingerprint substrings.
type Rule struct {
	Name         string     `json:"name" yaml:"name"`
	NamePrefixes []string   `json:"name_prefixes,omitempty" yaml:"name_prefixes,omitempty"`
	Fingerprint  []string   `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Quirk        Descriptor `json:"quirk" yaml:"quirk"`
}

// MatchSource records how a classification was reached.
type MatchSource string

const (
	SourceNone        MatchSource = "none"
	SourceName        MatchSource = "name"
	SourceFingerprint MatchSource = "fingerprint"
)

// Classification is the cached result of Classify.
type Classification struct {
	Rule       string
	Source     MatchSource
	Descriptor Descriptor
}

// Quirky reports whether color keys must be suppressed.
func (c Classification) Quirky() bool { return c.Descriptor.IgnoresColorKeys }

// VendorLowLatencyKeys returns vendor toggles only for name matches; a
// fingerprint guess never drives vendor option keys.
func (c Classification) VendorLowLatencyKeys() []VendorKey {
	if c.Source != SourceName {
		return nil
	}
	return c.Descriptor.LowLatencyKeys
}

// Registry is an ordered rule table. Overrides are consulted before built-ins.
type Registry struct {
	mu        sync.RWMutex
	builtin   []Rule
	overrides []Rule
}

// NewRegistry returns a registry over the given rules.
func NewRegistry(rules []Rule) *Registry {
	return &Registry{builtin: append([]Rule(nil), rules...)}
}

// Default returns a registry seeded with the built-in vendor table.
func Default() *Registry {
	return NewRegistry(builtinRules)
}

// SetOverrides replaces the override rules. Takes effect on the next Classify.
func (r *Registry) SetOverrides(rules []Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append([]Rule(nil), rules...)
}

// Rules returns overrides followed by built-ins.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.overrides)+len(r.builtin))
	out = append(out, r.overrides...)
	return append(out, r.builtin...)
}

// Classify finds the quirk descriptor for a decoder. Name-prefix rules are
// used whenever a name is known; fingerprint rules only when it is not.
func (r *Registry) Classify(decoderName string, fp ports.Fingerprint) Classification {
	rules := r.Rules()
	name := strings.ToLower(strings.TrimSpace(decoderName))

	if name != "" {
		for _, rule := range rules {
			if matchPrefix(name, rule.NamePrefixes) {
				return Classification{Rule: rule.Name, Source: SourceName, Descriptor: rule.Quirk}
			}
		}
		return Classification{Source: SourceNone}
	}

	if fp.IsZero() {
		return Classification{Source: SourceNone}
	}
	ids := fingerprintFields(fp)
	for _, rule := range rules {
		if matchFingerprint(ids, rule.Fingerprint) {
			return Classification{Rule: rule.Name, Source: SourceFingerprint, Descriptor: rule.Quirk}
		}
	}
	return Classification{Source: SourceNone}
}

func matchPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func fingerprintFields(fp ports.Fingerprint) []string {
	return []string{
		strings.ToLower(fp.Manufacturer),
		strings.ToLower(fp.Model),
		strings.ToLower(fp.Hardware),
		strings.ToLower(fp.Board),
		strings.ToLower(fp.SoC),
	}
}

func matchFingerprint(ids, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(n)
		if n == "" {
			continue
		}
		for _, id := range ids {
			if id != "" && strings.Contains(id, n) {
				return true
			}
		}
	}
	return false
}
