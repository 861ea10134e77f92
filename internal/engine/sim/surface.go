// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sim

import (
	"sync"
	"sync/atomic"

	"github.com/ManuGH/streamdec/internal/decoder/model"
)

// Surface counts presented frames and remembers its data space.
type Surface struct {
	id        string
	mu        sync.Mutex
	ds        model.DataSpace
	presented atomic.Int64
	lastFrame atomic.Int64
	released  atomic.Bool
}

func NewSurface(id string) *Surface {
	return &Surface{id: id}
}

func (s *Surface) ID() string { return s.id }

func (s *Surface) DataSpace() model.DataSpace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds
}

func (s *Surface) SetDataSpace(ds model.DataSpace) error {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	return nil
}

func (s *Surface) Release() { s.released.Store(true) }

func (s *Surface) Released() bool { return s.released.Load() }

func (s *Surface) Presented() int64 { return s.presented.Load() }

func (s *Surface) present(frame int64) {
	s.presented.Add(1)
	s.lastFrame.Store(frame)
}
