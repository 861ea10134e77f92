// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package annexb splits H.264 and HEVC Annex-B byte streams into the access
// units a decoder session accepts.
package annexb

import "github.com/ManuGH/streamdec/internal/decoder/model"

// H.264 NAL unit types (ITU-T H.264 Table 7-1).
const (
	H264Slice = 1
	H264IDR   = 5
	H264SEI   = 6
	H264SPS   = 7
	H264PPS   = 8
	H264AUD   = 9
)

// HEVC NAL unit types (ITU-T H.265 Table 7-1).
const (
	HEVCBLAWLP     = 16
	HEVCCRA        = 21
	HEVCVCLMax     = 31
	HEVCVPS        = 32
	HEVCSPS        = 33
	HEVCPPS        = 34
	HEVCAUD        = 35
	HEVCPrefixSEI  = 39
	HEVCSuffixSEI  = 40
	hevcHeaderSize = 2
)

// NAL is one NAL unit. Data keeps the start code so it can be queued as is.
type NAL struct {
	Type byte
	// Prefix is the start code length (3 or 4).
	Prefix int
	Data   []byte
}

// Body returns the NAL bytes after the start code.
func (n NAL) Body() []byte { return n.Data[n.Prefix:] }

// Split scans data for 3- and 4-byte start codes and returns the NAL units
// between them. Empty NAL units are skipped.
func Split(data []byte, codec model.Codec) []NAL {
	type mark struct{ start, body int }
	var marks []mark
	for i := 0; i+2 < len(data); {
		if data[i] != 0 || data[i+1] != 0 {
			i++
			continue
		}
		if data[i+2] == 1 {
			marks = append(marks, mark{i, i + 3})
			i += 3
			continue
		}
		if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
			marks = append(marks, mark{i, i + 4})
			i += 4
			continue
		}
		i++
	}

	minBody := 1
	if codec == model.CodecHEVC {
		minBody = hevcHeaderSize
	}
	nals := make([]NAL, 0, len(marks))
	for k, m := range marks {
		end := len(data)
		if k+1 < len(marks) {
			end = marks[k+1].start
		}
		if end-m.body < minBody {
			continue
		}
		nals = append(nals, NAL{
			Type:   nalType(codec, data[m.body]),
			Prefix: m.body - m.start,
			Data:   data[m.start:end],
		})
	}
	return nals
}

func nalType(codec model.Codec, first byte) byte {
	if codec == model.CodecHEVC {
		return (first >> 1) & 0x3F
	}
	return first & 0x1F
}

func headerSize(codec model.Codec) int {
	if codec == model.CodecHEVC {
		return hevcHeaderSize
	}
	return 1
}

// IsVCL reports whether the NAL carries slice data.
func IsVCL(codec model.Codec, t byte) bool {
	if codec == model.CodecHEVC {
		return t <= HEVCVCLMax
	}
	return t >= H264Slice && t <= H264IDR
}

// IsKey reports whether a slice NAL starts a random access point.
func IsKey(codec model.Codec, t byte) bool {
	if codec == model.CodecHEVC {
		return t >= HEVCBLAWLP && t <= HEVCCRA
	}
	return t == H264IDR
}

// ConfigKind maps parameter set NAL types to their unit kind.
func ConfigKind(codec model.Codec, t byte) (model.UnitKind, bool) {
	if codec == model.CodecHEVC {
		switch t {
		case HEVCVPS:
			return model.UnitVPS, true
		case HEVCSPS:
			return model.UnitSPS, true
		case HEVCPPS:
			return model.UnitPPS, true
		}
		return model.UnitPicture, false
	}
	switch t {
	case H264SPS:
		return model.UnitSPS, true
	case H264PPS:
		return model.UnitPPS, true
	}
	return model.UnitPicture, false
}

func isDelimiter(codec model.Codec, t byte) bool {
	if codec == model.CodecHEVC {
		return t == HEVCAUD
	}
	return t == H264AUD
}

// firstSlice reports whether a slice starts a new picture. Both codecs code
// the flag in the first bit after the NAL header: first_mb_in_slice == 0 is
// ue(v) "1" for H.264, first_slice_segment_in_pic_flag for HEVC.
func firstSlice(codec model.Codec, n NAL) bool {
	body := n.Body()
	h := headerSize(codec)
	if len(body) <= h {
		return true
	}
	return body[h]&0x80 != 0
}
