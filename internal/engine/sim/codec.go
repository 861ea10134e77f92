// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package sim is a software engine that moves buffers through the same
// queue discipline as a hardware decoder without decoding anything. The
// daemon's replay mode runs sessions against it.
package sim

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/ports"
)

var (
	ErrReleased      = errors.New("sim: codec released")
	ErrNotConfigured = errors.New("sim: codec not configured")
	ErrNotRunning    = errors.New("sim: codec not running")
	ErrRunning       = errors.New("sim: codec is running")
	ErrBadIndex      = errors.New("sim: invalid buffer index")
	ErrBadFormat     = errors.New("sim: format has no mime")
)

type codecState int

const (
	stateIdle codecState = iota
	stateConfigured
	stateRunning
	stateReleased
)

type outputFrame struct {
	index int
	info  ports.OutputInfo
}

// Codec is a bounded buffer pool with an output queue.
type Codec struct {
	name string

	mu        sync.Mutex
	state     codecState
	format    *ports.Format
	surface   ports.Surface
	buffers   [][]byte
	owned     map[int]bool
	csd       [][]byte
	announced bool
	// held keeps the frame that triggered the format notice so it is
	// returned ahead of anything queued behind it.
	held *outputFrame

	free    chan int
	outputs chan outputFrame
	nextOut atomic.Int64

	queued  atomic.Int64
	dropped atomic.Int64
	flushes atomic.Int64
}

func newCodec(name string, buffers, bufferSize int) *Codec {
	c := &Codec{
		name:    name,
		buffers: make([][]byte, buffers),
		owned:   make(map[int]bool),
		free:    make(chan int, buffers),
		outputs: make(chan outputFrame, buffers*2),
	}
	for i := range c.buffers {
		c.buffers[i] = make([]byte, bufferSize)
		c.free <- i
	}
	return c
}

func (c *Codec) Name() string { return c.name }

func (c *Codec) Configure(format *ports.Format, surface ports.Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateReleased:
		return ErrReleased
	case stateRunning:
		return ErrRunning
	}
	if _, ok := format.String(ports.KeyMIME); !ok {
		return ErrBadFormat
	}
	c.format = format.Clone()
	c.surface = surface
	c.csd = nil
	c.announced = false
	c.state = stateConfigured
	return nil
}

func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateReleased:
		return ErrReleased
	case stateIdle:
		return ErrNotConfigured
	}
	c.state = stateRunning
	return nil
}

// Stop returns the codec to the idle state; it needs Configure before the
// next Start.
func (c *Codec) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateReleased {
		return ErrReleased
	}
	c.resetQueuesLocked()
	c.state = stateIdle
	return nil
}

// Flush discards queued input and pending output. Only valid while running.
func (c *Codec) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateRunning {
		return ErrNotRunning
	}
	c.resetQueuesLocked()
	c.flushes.Add(1)
	return nil
}

func (c *Codec) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetQueuesLocked()
	c.state = stateReleased
	c.surface = nil
	return nil
}

func (c *Codec) resetQueuesLocked() {
	c.held = nil
	for {
		select {
		case <-c.outputs:
			continue
		default:
		}
		break
	}
	for idx := range c.owned {
		delete(c.owned, idx)
		c.free <- idx
	}
}

func (c *Codec) running() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateRunning:
		return nil
	case stateReleased:
		return ErrReleased
	default:
		return ErrNotRunning
	}
}

func (c *Codec) DequeueInputBuffer(timeout time.Duration) (int, error) {
	if err := c.running(); err != nil {
		return -1, err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case idx := <-c.free:
		c.mu.Lock()
		c.owned[idx] = true
		c.mu.Unlock()
		return idx, nil
	case <-timer.C:
		return -1, ports.ErrTryAgain
	}
}

func (c *Codec) InputBuffer(index int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.owned[index] {
		return nil, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	return c.buffers[index], nil
}

// QueueInputBuffer hands the slot back. Codec config data is retained;
// picture data becomes one output frame carrying the same timestamp.
func (c *Codec) QueueInputBuffer(index, offset, size int, ptsUs int64, flags ports.BufferFlags) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateRunning {
		return ErrNotRunning
	}
	if !c.owned[index] {
		return fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	if offset < 0 || size < 0 || offset+size > len(c.buffers[index]) {
		return fmt.Errorf("%w: range %d+%d", ErrBadIndex, offset, size)
	}
	delete(c.owned, index)
	c.free <- index
	c.queued.Add(1)

	if size == 0 {
		return nil
	}
	if flags&ports.FlagCodecConfig != 0 {
		c.csd = append(c.csd, append([]byte(nil), c.buffers[index][offset:offset+size]...))
		return nil
	}

	frame := outputFrame{
		index: int(c.nextOut.Add(1)),
		info:  ports.OutputInfo{Size: size, PresentationTimeUs: ptsUs, Flags: flags & ports.FlagKeyFrame},
	}
	select {
	case c.outputs <- frame:
	default:
		c.dropped.Add(1)
	}
	return nil
}

// DequeueOutputBuffer reports a format change before the first frame after
// every Configure.
func (c *Codec) DequeueOutputBuffer(timeout time.Duration) (int, ports.OutputInfo, error) {
	if err := c.running(); err != nil {
		time.Sleep(timeout)
		return -1, ports.OutputInfo{}, err
	}
	c.mu.Lock()
	if c.held != nil {
		frame := *c.held
		c.held = nil
		c.mu.Unlock()
		return frame.index, frame.info, nil
	}
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case frame := <-c.outputs:
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.announced {
			c.announced = true
			c.held = &frame
			return -1, ports.OutputInfo{}, ports.ErrOutputFormatChanged
		}
		return frame.index, frame.info, nil
	case <-timer.C:
		return -1, ports.OutputInfo{}, ports.ErrTryAgain
	}
}

func (c *Codec) ReleaseOutputBuffer(index int, render bool) error {
	c.mu.Lock()
	surface := c.surface
	c.mu.Unlock()
	if render {
		if s, ok := surface.(*Surface); ok {
			s.present(int64(index))
		}
	}
	return nil
}

// Stats is a point-in-time view of the codec counters.
type Stats struct {
	Queued     int64
	Dropped    int64
	Flushes    int64
	ConfigData int
}

func (c *Codec) Stats() Stats {
	c.mu.Lock()
	csd := len(c.csd)
	c.mu.Unlock()
	return Stats{
		Queued:     c.queued.Load(),
		Dropped:    c.dropped.Load(),
		Flushes:    c.flushes.Load(),
		ConfigData: csd,
	}
}
