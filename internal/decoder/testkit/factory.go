// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

// FakeFactory hands out FakeCodecs. Names listed in Known can be created by
// name; CreateByType names the codec "c2.android.<codec>.decoder" unless
// DefaultName is set.
type FakeFactory struct {
	mu          sync.Mutex
	known       map[string]bool
	defaultName string
	typeErr     error
	prepare     func(*FakeCodec)
	created     []*FakeCodec
}

func NewFakeFactory(known ...string) *FakeFactory {
	f := &FakeFactory{known: make(map[string]bool)}
	for _, k := range known {
		f.known[k] = true
	}
	return f
}

// SetDefaultName fixes the name used by CreateByType.
func (f *FakeFactory) SetDefaultName(name string) {
	f.mu.Lock()
	f.defaultName = name
	f.mu.Unlock()
}

// FailCreateByType makes every type lookup fail.
func (f *FakeFactory) FailCreateByType(err error) {
	f.mu.Lock()
	f.typeErr = err
	f.mu.Unlock()
}

// OnCreate runs fn on every new codec before it is returned.
func (f *FakeFactory) OnCreate(fn func(*FakeCodec)) {
	f.mu.Lock()
	f.prepare = fn
	f.mu.Unlock()
}

func (f *FakeFactory) CreateByName(name string) (ports.Codec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.known[name] {
		return nil, fmt.Errorf("%w: unknown decoder %q", ErrInjected, name)
	}
	return f.newCodecLocked(name), nil
}

func (f *FakeFactory) CreateByType(mime string) (ports.Codec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.typeErr != nil {
		return nil, f.typeErr
	}
	name := f.defaultName
	if name == "" {
		name = "c2.android." + codecSuffix(mime) + ".decoder"
	}
	return f.newCodecLocked(name), nil
}

func (f *FakeFactory) newCodecLocked(name string) *FakeCodec {
	c := NewFakeCodec(name)
	if f.prepare != nil {
		f.prepare(c)
	}
	f.created = append(f.created, c)
	return c
}

// Created returns every codec handed out so far.
func (f *FakeFactory) Created() []*FakeCodec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeCodec(nil), f.created...)
}

// Last returns the most recent codec or nil.
func (f *FakeFactory) Last() *FakeCodec {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

func codecSuffix(mime string) string {
	switch mime {
	case model.MIMEHEVC:
		return "hevc"
	case model.MIMEAV1:
		return "av1"
	default:
		return strings.TrimPrefix(mime, "video/")
	}
}
