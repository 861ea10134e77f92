// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package quirks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk override format.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads override rules from a YAML file. Unknown fields are rejected.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read quirk file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates override rules.
func Parse(data []byte) ([]Rule, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("strict quirk parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("quirk file contains multiple documents or trailing content")
	}
	for i, r := range f.Rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return f.Rules, nil
}

func validateRule(r Rule) error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.NamePrefixes) == 0 && len(r.Fingerprint) == 0 {
		return fmt.Errorf("%s: needs name_prefixes or fingerprint", r.Name)
	}
	for _, k := range r.Quirk.LowLatencyKeys {
		if k.Key == "" {
			return fmt.Errorf("%s: low_latency_keys entry without key", r.Name)
		}
	}
	return nil
}
