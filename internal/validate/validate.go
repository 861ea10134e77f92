// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package validate accumulates configuration validation errors.
package validate

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Error is a single failed check.
type Error struct {
	Field   string
	Value   interface{}
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors.
type Validator struct {
	errors []Error
}

// ValidationError bundles every failed check into one error value.
type ValidationError struct {
	errors []Error
}

func New() *Validator {
	return &Validator{errors: make([]Error, 0)}
}

func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{Field: field, Value: value, Message: message})
}

func (v *Validator) IsValid() bool { return len(v.errors) == 0 }

func (v *Validator) Errors() []Error { return v.errors }

// Err returns nil when every check passed.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)
	return ValidationError{errors: copied}
}

func (e ValidationError) Errors() []Error { return e.errors }

func (e ValidationError) Error() string {
	switch len(e.errors) {
	case 0:
		return ""
	case 1:
		return e.errors[0].Error()
	}
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Range checks minVal <= value <= maxVal.
func (v *Validator) Range(field string, value, minVal, maxVal int) {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal), value)
	}
}

// FloatRange checks minVal <= value <= maxVal.
func (v *Validator) FloatRange(field string, value, minVal, maxVal float64) {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %g and %g", minVal, maxVal), value)
	}
}

// DurationRange checks minVal <= value <= maxVal.
func (v *Validator) DurationRange(field string, value, minVal, maxVal time.Duration) {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %s and %s", minVal, maxVal), value)
	}
}

func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "cannot be empty", value)
	}
}

func (v *Validator) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")), value)
	}
}

func (v *Validator) Positive(field string, value int) {
	if value <= 0 {
		v.AddError(field, "must be positive", value)
	}
}

// ListenAddr checks a host:port listen address. An empty host binds all interfaces.
func (v *Validator) ListenAddr(field, addr string) {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid listen address: %v", err), addr)
		return
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		v.AddError(field, "port must be between 0 and 65535", addr)
	}
}

// FileExists checks that path names a regular file. Empty paths are skipped.
func (v *Validator) FileExists(field, path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		v.AddError(field, fmt.Sprintf("cannot access file: %v", err), path)
		return
	}
	if info.IsDir() {
		v.AddError(field, "is a directory", path)
	}
}
