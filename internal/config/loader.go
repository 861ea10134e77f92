// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader resolves configuration from defaults, an optional YAML file and ENV.
type Loader struct {
	configPath string
	version    string
}

func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

func (l *Loader) Path() string { return l.configPath }

// Load returns the merged configuration. It does not validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		data, err := os.ReadFile(filepath.Clean(l.configPath))
		if err != nil {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
		if err := parseInto(&cfg, data); err != nil {
			return AppConfig{}, err
		}
	}

	mergeEnv(&cfg)
	return cfg, nil
}

// parseInto decodes YAML over cfg. Keys absent from the file keep their
// current values.
func parseInto(cfg *AppConfig, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrMultipleDocuments
	}
	return nil
}
