// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// SetupStatus is the integer status returned by Setup.
type SetupStatus int

const (
	SetupOK                 SetupStatus = 0
	SetupFailed             SetupStatus = -1
	SetupMissingColorConfig SetupStatus = -2
	SetupMissingColorSpace  SetupStatus = -3
)

func (s SetupStatus) String() string {
	switch s {
	case SetupOK:
		return "ok"
	case SetupMissingColorConfig:
		return "missing_color_config"
	case SetupMissingColorSpace:
		return "missing_color_space"
	default:
		return "failed"
	}
}

// SubmitResult is the per-unit answer to the transport.
type SubmitResult int

const (
	ResultOK           SubmitResult = 0
	ResultNeedKeyframe SubmitResult = -1
)

func (r SubmitResult) String() string {
	if r == ResultOK {
		return "ok"
	}
	return "need_keyframe"
}
