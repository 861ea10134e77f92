// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// Engine color values. They follow the platform media-format constants so a
// real engine binding can pass them through unchanged.
type (
	ColorRange    int
	ColorStandard int
	ColorTransfer int
)

const (
	ColorRangeFull    ColorRange = 1
	ColorRangeLimited ColorRange = 2

	ColorStandardBT709     ColorStandard = 1
	ColorStandardBT601PAL  ColorStandard = 2
	ColorStandardBT601NTSC ColorStandard = 4
	ColorStandardBT2020    ColorStandard = 6

	ColorTransferLinear   ColorTransfer = 1
	ColorTransferSDRVideo ColorTransfer = 3
	ColorTransferST2084   ColorTransfer = 6
	ColorTransferHLG      ColorTransfer = 7
)

// DataSpace identifies the color space a rendering surface expects.
type DataSpace int32

const (
	DataSpaceUnknown  DataSpace = 0
	DataSpaceSRGB     DataSpace = 0x08810000
	DataSpaceBT709    DataSpace = 0x10C10000
	DataSpaceBT2020PQ DataSpace = 0x09C60000
)

func (d DataSpace) String() string {
	switch d {
	case DataSpaceUnknown:
		return "unknown"
	case DataSpaceSRGB:
		return "srgb"
	case DataSpaceBT709:
		return "bt709"
	case DataSpaceBT2020PQ:
		return "bt2020_pq"
	default:
		return fmt.Sprintf("0x%08x", int32(d))
	}
}

// HDRMetadataCapacity bounds the HDR static info blob.
const HDRMetadataCapacity = 64

// ColorRequest is what the caller supplied through SetColorConfig. Raw ints
// are kept so negative "not available" sentinels can be detected.
type ColorRequest struct {
	Range      int
	Standard   int
	Transfer   int
	ColorSpace int
}

// HasTriple reports whether range, standard and transfer were all supplied.
func (r ColorRequest) HasTriple() bool {
	return r.Range >= 0 && r.Standard >= 0 && r.Transfer >= 0
}

// HasColorSpace reports whether a usable color space was supplied.
func (r ColorRequest) HasColorSpace() bool {
	return r.ColorSpace >= 0
}

// ColorConfig is the resolved color configuration applied at Setup. The HDR
// flavor sets only the range so the engine infers standard/transfer from the
// bitstream; the SDR flavor sets the full triple.
type ColorConfig struct {
	HDR bool

	Range    ColorRange
	Standard ColorStandard
	Transfer ColorTransfer

	HasRange    bool
	HasStandard bool
	HasTransfer bool

	// Suppressed is set when no color keys may be written at all.
	Suppressed bool

	HDRStaticInfo []byte
	Target        DataSpace
}
