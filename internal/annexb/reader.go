// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package annexb

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/streamdec/internal/decoder/model"
)

var ErrUnsupportedCodec = errors.New("annexb: codec has no Annex-B syntax")

// Reader yields access units in stream order. Parameter sets come out as
// individual config units; slices of one picture, together with any SEI or
// delimiter NALs before them, come out as one picture unit.
type Reader struct {
	codec  model.Codec
	nals   []NAL
	pos    int
	prefix []NAL
	frame  int
}

func NewReader(data []byte, codec model.Codec) (*Reader, error) {
	if codec != model.CodecAVC && codec != model.CodecHEVC {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, codec)
	}
	return &Reader{codec: codec, nals: Split(data, codec)}, nil
}

// Open reads an Annex-B elementary stream file.
func Open(path string, codec model.Codec) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewReader(data, codec)
}

// Next returns the next unit or io.EOF. Non-slice NALs trailing the last
// picture are dropped.
func (r *Reader) Next() (model.AccessUnit, error) {
	var slices []NAL
	for r.pos < len(r.nals) {
		n := r.nals[r.pos]
		if kind, ok := ConfigKind(r.codec, n.Type); ok {
			if len(slices) > 0 {
				return r.picture(slices), nil
			}
			r.pos++
			return model.AccessUnit{Data: n.Data, Length: len(n.Data), Kind: kind}, nil
		}
		if IsVCL(r.codec, n.Type) {
			if len(slices) > 0 && firstSlice(r.codec, n) {
				return r.picture(slices), nil
			}
			slices = append(slices, n)
			r.pos++
			continue
		}
		if len(slices) > 0 {
			return r.picture(slices), nil
		}
		if isDelimiter(r.codec, n.Type) {
			r.prefix = r.prefix[:0]
		}
		r.prefix = append(r.prefix, n)
		r.pos++
	}
	if len(slices) > 0 {
		return r.picture(slices), nil
	}
	return model.AccessUnit{}, io.EOF
}

func (r *Reader) picture(slices []NAL) model.AccessUnit {
	size := 0
	for _, n := range r.prefix {
		size += len(n.Data)
	}
	for _, n := range slices {
		size += len(n.Data)
	}
	data := make([]byte, 0, size)
	for _, n := range r.prefix {
		data = append(data, n.Data...)
	}
	r.prefix = r.prefix[:0]

	frame := model.FramePredicted
	for _, n := range slices {
		data = append(data, n.Data...)
		if IsKey(r.codec, n.Type) {
			frame = model.FrameKey
		}
	}
	au := model.AccessUnit{
		Data:        data,
		Length:      len(data),
		Kind:        model.UnitPicture,
		Frame:       frame,
		FrameNumber: r.frame,
	}
	r.frame++
	return au
}

// Rewind restarts the stream from the first NAL. Frame numbers keep counting.
func (r *Reader) Rewind() {
	r.pos = 0
	r.prefix = r.prefix[:0]
}
