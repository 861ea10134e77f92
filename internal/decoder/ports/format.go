// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known format keys.
const (
	KeyMIME          = "mime"
	KeyWidth         = "width"
	KeyHeight        = "height"
	KeyFrameRate     = "frame-rate"
	KeyLowLatency    = "low-latency"
	KeyMaxWidth      = "max-width"
	KeyMaxHeight     = "max-height"
	KeyOperatingRate = "operating-rate"
	KeyPriority      = "priority"
	KeyColorRange    = "color-range"
	KeyColorStandard = "color-standard"
	KeyColorTransfer = "color-transfer"
	KeyHDRStaticInfo = "hdr-static-info"
)

// Format is the key/value descriptor an engine is configured with. Values
// are int32, string or []byte.
type Format struct {
	values map[string]any
}

// NewFormat returns an empty descriptor.
func NewFormat() *Format {
	return &Format{values: make(map[string]any)}
}

func (f *Format) SetInt32(key string, v int32) { f.values[key] = v }

func (f *Format) SetString(key string, v string) { f.values[key] = v }

// SetBuffer stores a copy of b.
func (f *Format) SetBuffer(key string, b []byte) {
	f.values[key] = append([]byte(nil), b...)
}

func (f *Format) Int32(key string) (int32, bool) {
	v, ok := f.values[key].(int32)
	return v, ok
}

func (f *Format) String(key string) (string, bool) {
	v, ok := f.values[key].(string)
	return v, ok
}

func (f *Format) Buffer(key string) ([]byte, bool) {
	v, ok := f.values[key].([]byte)
	return v, ok
}

func (f *Format) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns the set keys in sorted order.
func (f *Format) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (f *Format) Clone() *Format {
	out := NewFormat()
	for k, v := range f.values {
		if b, ok := v.([]byte); ok {
			out.values[k] = append([]byte(nil), b...)
			continue
		}
		out.values[k] = v
	}
	return out
}

// Map exports the descriptor for status output. Buffers are rendered as lengths.
func (f *Format) Map() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		if b, ok := v.([]byte); ok {
			out[k] = fmt.Sprintf("<%d bytes>", len(b))
			continue
		}
		out[k] = v
	}
	return out
}

func (f *Format) Dump() string {
	parts := make([]string, 0, len(f.values))
	for _, k := range f.Keys() {
		v := f.values[k]
		if b, ok := v.([]byte); ok {
			parts = append(parts, fmt.Sprintf("%s=<%d bytes>", k, len(b)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
