// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"sync"
	"sync/atomic"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

// FakeSurface records data space changes and release.
type FakeSurface struct {
	id       string
	mu       sync.Mutex
	ds       model.DataSpace
	setErr   error
	setCount int
	released atomic.Bool
}

func NewFakeSurface(id string) *FakeSurface {
	return &FakeSurface{id: id}
}

func (s *FakeSurface) ID() string { return s.id }

func (s *FakeSurface) DataSpace() model.DataSpace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds
}

func (s *FakeSurface) SetDataSpace(ds model.DataSpace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.ds = ds
	s.setCount++
	return nil
}

func (s *FakeSurface) Release() { s.released.Store(true) }

func (s *FakeSurface) Released() bool { return s.released.Load() }

func (s *FakeSurface) SetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCount
}

func (s *FakeSurface) FailSetDataSpace(err error) {
	s.mu.Lock()
	s.setErr = err
	s.mu.Unlock()
}

// FakeCaps answers capability queries from a fixed feature set.
type FakeCaps struct {
	mu       sync.Mutex
	features map[ports.Feature]bool
	queries  []string
}

func NewFakeCaps(features ...ports.Feature) *FakeCaps {
	c := &FakeCaps{features: make(map[ports.Feature]bool)}
	for _, f := range features {
		c.features[f] = true
	}
	return c
}

func (c *FakeCaps) Supports(decoder string, codec model.Codec, feature ports.Feature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, decoder+"/"+string(codec)+"/"+string(feature))
	return c.features[feature]
}

func (c *FakeCaps) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

// FakeSelector always prefers one decoder name.
type FakeSelector struct {
	Name string
}

func (s FakeSelector) PreferredDecoder(model.Codec) (string, bool) {
	return s.Name, s.Name != ""
}

// FakePlatform reports a fixed version and fingerprint.
type FakePlatform struct {
	SDK int
	FP  ports.Fingerprint
}

func (p FakePlatform) SDKVersion() int { return p.SDK }

func (p FakePlatform) Fingerprint() ports.Fingerprint { return p.FP }
