// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// VideoFormat is the negotiated stream format bitmask sent by the host.
type VideoFormat int

const (
	VideoFormatH264       VideoFormat = 0x0001
	VideoFormatH264High44 VideoFormat = 0x0004
	VideoFormatH265       VideoFormat = 0x0100
	VideoFormatH265Main10 VideoFormat = 0x0200
	VideoFormatAV1Main8   VideoFormat = 0x1000
	VideoFormatAV1Main10  VideoFormat = 0x2000

	VideoFormatMaskH264  VideoFormat = 0x000F
	VideoFormatMaskH265  VideoFormat = 0x0F00
	VideoFormatMaskAV1   VideoFormat = 0xF000
	VideoFormatMask10Bit VideoFormat = 0x2200
)

// HostCodecModeHDR10 is set in the host's codec-mode mask when it can stream
// HEVC Main10 or AV1 Main10 with HDR10.
const HostCodecModeHDR10 HostCodecModes = 0x20200

// HostCodecModes is the codec-mode support mask reported by the streaming
// host. Zero means the host reported nothing.
type HostCodecModes uint32

// SupportsHDR reports whether HDR may be requested from the host. An
// unreported mask does not restrict HDR.
func (m HostCodecModes) SupportsHDR() bool {
	return m == 0 || m&HostCodecModeHDR10 != 0
}

// Codec is the codec family selected from a VideoFormat.
type Codec string

const (
	CodecAVC  Codec = "avc"
	CodecHEVC Codec = "hevc"
	CodecAV1  Codec = "av1"
)

// MIME types handed to the engine factory.
const (
	MIMEAVC  = "video/avc"
	MIMEHEVC = "video/hevc"
	MIMEAV1  = "video/av01"
)

// Codec maps the bitmask to a codec family. HEVC bits win over AV1 bits;
// anything else is treated as AVC.
func (f VideoFormat) Codec() Codec {
	if f&VideoFormatMaskH265 != 0 {
		return CodecHEVC
	}
	if f&VideoFormatMaskAV1 != 0 {
		return CodecAV1
	}
	return CodecAVC
}

// Is10Bit reports whether the format carries a 10-bit (HDR capable) profile.
func (f VideoFormat) Is10Bit() bool {
	return f&VideoFormatMask10Bit != 0
}

// Strip10Bit replaces 10-bit profiles with the 8-bit profile of the same
// codec family.
func (f VideoFormat) Strip10Bit() VideoFormat {
	out := f &^ VideoFormatMask10Bit
	if f&VideoFormatH265Main10 != 0 {
		out |= VideoFormatH265
	}
	if f&VideoFormatAV1Main10 != 0 {
		out |= VideoFormatAV1Main8
	}
	return out
}

func (f VideoFormat) String() string {
	return fmt.Sprintf("0x%04x", int(f))
}

// MIME returns the engine MIME type for the codec family.
func (c Codec) MIME() string {
	switch c {
	case CodecHEVC:
		return MIMEHEVC
	case CodecAV1:
		return MIMEAV1
	default:
		return MIMEAVC
	}
}

// StreamFormat is the negotiated stream shape handed to Setup.
type StreamFormat struct {
	VideoFormat VideoFormat
	Width       int
	Height      int
	FPS         int
}

// Codec is shorthand for f.VideoFormat.Codec().
func (f StreamFormat) Codec() Codec { return f.VideoFormat.Codec() }

// Validate rejects shapes no engine can be configured with.
func (f StreamFormat) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFormat, f.Width, f.Height)
	}
	if f.FPS < 0 {
		return fmt.Errorf("%w: negative frame rate %d", ErrInvalidFormat, f.FPS)
	}
	return nil
}

// Resolution renders WxH for logs.
func (f StreamFormat) Resolution() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}
