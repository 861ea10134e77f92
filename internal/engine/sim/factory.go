// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

const (
	DefaultBuffers    = 8
	DefaultBufferSize = 2 << 20
)

// Config sizes the input pool of every codec the factory creates.
type Config struct {
	Buffers    int
	BufferSize int

	// Decoders lists extra names CreateByName accepts, e.g. vendor names
	// used to exercise quirk rules.
	Decoders []string

	// Unnamed codecs report an empty Name, like engines that hide their
	// component name.
	Unnamed bool
}

// Factory creates sim codecs.
type Factory struct {
	cfg Config

	mu    sync.Mutex
	known map[string]bool
	last  *Codec
}

func NewFactory(cfg Config) *Factory {
	if cfg.Buffers <= 0 {
		cfg.Buffers = DefaultBuffers
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	f := &Factory{cfg: cfg, known: make(map[string]bool)}
	for _, c := range []model.Codec{model.CodecAVC, model.CodecHEVC, model.CodecAV1} {
		f.known[DecoderName(c)] = true
	}
	for _, n := range cfg.Decoders {
		f.known[strings.ToLower(n)] = true
	}
	return f
}

// DecoderName is the generic decoder the factory hands out for a codec.
func DecoderName(c model.Codec) string {
	return "c2.sim." + string(c) + ".decoder"
}

func (f *Factory) CreateByName(name string) (ports.Codec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.known[strings.ToLower(name)] {
		return nil, fmt.Errorf("sim: unknown decoder %q", name)
	}
	if f.cfg.Unnamed {
		name = ""
	}
	c := newCodec(name, f.cfg.Buffers, f.cfg.BufferSize)
	f.last = c
	return c, nil
}

func (f *Factory) CreateByType(mime string) (ports.Codec, error) {
	for _, c := range []model.Codec{model.CodecAVC, model.CodecHEVC, model.CodecAV1} {
		if c.MIME() == mime {
			return f.CreateByName(DecoderName(c))
		}
	}
	return nil, fmt.Errorf("sim: no decoder for %q", mime)
}

// Last returns the most recently created codec.
func (f *Factory) Last() *Codec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
