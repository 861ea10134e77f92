// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

var ErrInjected = errors.New("testkit: injected failure")

// Queued is one QueueInputBuffer call as observed by the fake.
type Queued struct {
	Index int
	Size  int
	PTS   int64
	Flags ports.BufferFlags
	Data  []byte
}

// FakeCodec is a scripted engine. Failure knobs are read on each call.
type FakeCodec struct {
	name string

	mu            sync.Mutex
	inputCapacity int
	configureErr  error
	startErr      error
	stopErr       error
	flushErr      error
	dequeueErr    error
	queueErr      error
	clobber       model.DataSpace
	lastFormat    *ports.Format
	lastSurface   ports.Surface
	queued        []Queued
	nextIndex     int
	buffers       map[int][]byte

	outputs chan ports.OutputInfo

	configureCount atomic.Int32
	startCount     atomic.Int32
	stopCount      atomic.Int32
	flushCount     atomic.Int32
	releaseCount   atomic.Int32
	dequeueCount   atomic.Int32
	rendered       atomic.Int32
	outputPolls    atomic.Int32
}

// NewFakeCodec returns an engine with 1 MiB input buffers.
func NewFakeCodec(name string) *FakeCodec {
	return &FakeCodec{
		name:          name,
		inputCapacity: 1 << 20,
		buffers:       make(map[int][]byte),
		outputs:       make(chan ports.OutputInfo, 256),
	}
}

func (c *FakeCodec) Name() string { return c.name }

func (c *FakeCodec) Configure(format *ports.Format, surface ports.Surface) error {
	c.configureCount.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configureErr != nil {
		return c.configureErr
	}
	c.lastFormat = format.Clone()
	c.lastSurface = surface
	if c.clobber != model.DataSpaceUnknown && surface != nil {
		_ = surface.SetDataSpace(c.clobber)
	}
	return nil
}

func (c *FakeCodec) Start() error {
	c.startCount.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startErr
}

func (c *FakeCodec) Stop() error {
	c.stopCount.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopErr
}

func (c *FakeCodec) Flush() error {
	c.flushCount.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushErr
}

func (c *FakeCodec) Release() error {
	c.releaseCount.Add(1)
	return nil
}

func (c *FakeCodec) DequeueInputBuffer(_ time.Duration) (int, error) {
	c.dequeueCount.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dequeueErr != nil {
		return -1, c.dequeueErr
	}
	idx := c.nextIndex
	c.nextIndex++
	c.buffers[idx] = make([]byte, c.inputCapacity)
	return idx, nil
}

func (c *FakeCodec) InputBuffer(index int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.buffers[index]
	if !ok {
		return nil, ErrInjected
	}
	return buf, nil
}

func (c *FakeCodec) QueueInputBuffer(index, offset, size int, ptsUs int64, flags ports.BufferFlags) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queueErr != nil {
		return c.queueErr
	}
	buf := c.buffers[index]
	delete(c.buffers, index)
	var data []byte
	if size > 0 && offset+size <= len(buf) {
		data = append([]byte(nil), buf[offset:offset+size]...)
	}
	c.queued = append(c.queued, Queued{Index: index, Size: size, PTS: ptsUs, Flags: flags, Data: data})
	return nil
}

func (c *FakeCodec) DequeueOutputBuffer(timeout time.Duration) (int, ports.OutputInfo, error) {
	c.outputPolls.Add(1)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case info := <-c.outputs:
		return 0, info, nil
	case <-timer.C:
		return -1, ports.OutputInfo{}, ports.ErrTryAgain
	}
}

func (c *FakeCodec) ReleaseOutputBuffer(_ int, render bool) error {
	if render {
		c.rendered.Add(1)
	}
	return nil
}

// PushOutput makes a decoded frame available to the output side.
func (c *FakeCodec) PushOutput(info ports.OutputInfo) {
	c.outputs <- info
}

func (c *FakeCodec) SetInputCapacity(n int) {
	c.mu.Lock()
	c.inputCapacity = n
	c.mu.Unlock()
}

func (c *FakeCodec) FailConfigure(err error) { c.set(func() { c.configureErr = err }) }
func (c *FakeCodec) FailStart(err error)     { c.set(func() { c.startErr = err }) }
func (c *FakeCodec) FailStop(err error)      { c.set(func() { c.stopErr = err }) }
func (c *FakeCodec) FailFlush(err error)     { c.set(func() { c.flushErr = err }) }
func (c *FakeCodec) FailDequeue(err error)   { c.set(func() { c.dequeueErr = err }) }
func (c *FakeCodec) FailQueue(err error)     { c.set(func() { c.queueErr = err }) }

// ClobberDataSpace makes Configure overwrite the surface color space, the
// way some engines do.
func (c *FakeCodec) ClobberDataSpace(ds model.DataSpace) { c.set(func() { c.clobber = ds }) }

func (c *FakeCodec) set(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
}

func (c *FakeCodec) LastFormat() *ports.Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastFormat == nil {
		return nil
	}
	return c.lastFormat.Clone()
}

func (c *FakeCodec) Queued() []Queued {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Queued(nil), c.queued...)
}

func (c *FakeCodec) ConfigureCount() int32 { return c.configureCount.Load() }
func (c *FakeCodec) StartCount() int32     { return c.startCount.Load() }
func (c *FakeCodec) StopCount() int32      { return c.stopCount.Load() }
func (c *FakeCodec) FlushCount() int32     { return c.flushCount.Load() }
func (c *FakeCodec) ReleaseCount() int32   { return c.releaseCount.Load() }
func (c *FakeCodec) DequeueCount() int32   { return c.dequeueCount.Load() }
func (c *FakeCodec) Rendered() int32       { return c.rendered.Load() }
func (c *FakeCodec) OutputPolls() int32    { return c.outputPolls.Load() }
