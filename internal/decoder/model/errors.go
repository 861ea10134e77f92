// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "errors"

var (
	ErrSessionExists      = errors.New("decoder session already exists")
	ErrNoSurface          = errors.New("no rendering surface")
	ErrMissingColorConfig = errors.New("color configuration not supplied")
	ErrMissingColorSpace  = errors.New("color space not supplied")
	ErrDecoderUnavailable = errors.New("decoder unavailable")
	ErrConfigureFailed    = errors.New("engine configure failed")
	ErrInvalidFormat      = errors.New("invalid stream format")
	ErrHDRMetadataTooLong = errors.New("hdr metadata exceeds capacity")
	ErrBadUnitLength      = errors.New("access unit length does not match data")
)

// SetupStatusFor maps a Setup error to the status code reported to the transport.
func SetupStatusFor(err error) SetupStatus {
	switch {
	case err == nil:
		return SetupOK
	case errors.Is(err, ErrMissingColorConfig):
		return SetupMissingColorConfig
	case errors.Is(err, ErrMissingColorSpace):
		return SetupMissingColorSpace
	default:
		return SetupFailed
	}
}
