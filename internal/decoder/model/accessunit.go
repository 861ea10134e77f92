// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// UnitKind classifies an access unit. Anything other than picture data is
// codec configuration (parameter sets).
type UnitKind int

const (
	UnitPicture UnitKind = 0
	UnitSPS     UnitKind = 1
	UnitPPS     UnitKind = 2
	UnitVPS     UnitKind = 3
)

// IsConfig reports whether the unit carries codec configuration data.
func (k UnitKind) IsConfig() bool { return k != UnitPicture }

func (k UnitKind) String() string {
	switch k {
	case UnitPicture:
		return "picture"
	case UnitSPS:
		return "sps"
	case UnitPPS:
		return "pps"
	case UnitVPS:
		return "vps"
	default:
		return "config"
	}
}

// FrameKind distinguishes key frames from predicted frames.
type FrameKind int

const (
	FramePredicted FrameKind = 0
	FrameKey       FrameKind = 1
)

// AccessUnit is one compressed chunk handed over by the transport.
type AccessUnit struct {
	Data        []byte
	Length      int
	Kind        UnitKind
	Frame       FrameKind
	FrameNumber int
	ReceiveMs   int64
	EnqueueMs   int64
}

// Payload returns the declared prefix of Data. A length outside the data
// is rejected rather than clamped.
func (au AccessUnit) Payload() ([]byte, error) {
	if au.Length < 0 || au.Length > len(au.Data) {
		return nil, fmt.Errorf("%w: declared %d, have %d", ErrBadUnitLength, au.Length, len(au.Data))
	}
	return au.Data[:au.Length], nil
}
