// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import (
	"errors"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/model"
)

// Informational results of the engine's dequeue calls. They are not failures.
var (
	ErrTryAgain             = errors.New("engine: try again later")
	ErrOutputFormatChanged  = errors.New("engine: output format changed")
	ErrOutputBuffersChanged = errors.New("engine: output buffers changed")
)

// BufferFlags annotate a queued input buffer.
type BufferFlags uint32

const (
	FlagKeyFrame    BufferFlags = 1
	FlagCodecConfig BufferFlags = 2
	FlagEndOfStream BufferFlags = 4
)

// OutputInfo describes a decoded output buffer.
type OutputInfo struct {
	Offset             int
	Size               int
	PresentationTimeUs int64
	Flags              BufferFlags
}

// Codec is a single decoding engine instance. It mirrors the buffer-queue
// model of hardware decoders: input buffers are dequeued, filled and queued;
// output buffers are dequeued and released (optionally rendered).
//
// Implementations must allow the output side to be driven from a second
// goroutine while the input side is in use.
type Codec interface {
	Name() string

	Configure(format *Format, surface Surface) error
	Start() error
	Stop() error
	Flush() error
	Release() error

	DequeueInputBuffer(timeout time.Duration) (int, error)
	InputBuffer(index int) ([]byte, error)
	QueueInputBuffer(index, offset, size int, ptsUs int64, flags BufferFlags) error

	DequeueOutputBuffer(timeout time.Duration) (int, OutputInfo, error)
	ReleaseOutputBuffer(index int, render bool) error
}

// Factory creates engine instances.
type Factory interface {
	CreateByName(name string) (Codec, error)
	CreateByType(mime string) (Codec, error)
}

// Surface is the rendering target decoded frames are released to.
type Surface interface {
	ID() string
	DataSpace() model.DataSpace
	SetDataSpace(ds model.DataSpace) error
	Release()
}
