// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

// EventKind is a domain event in the decoder session lifecycle.
type EventKind int

const (
	EvUnknown EventKind = iota
	EvCreated
	EvConfigured
	EvConfigureFailed
	EvStarted
	EvStartFailed
	EvFault
	EvRecovered
	EvStopped
	EvCleanup
	EvHdrChanged
)

var eventNames = map[EventKind]string{
	EvUnknown:         "unknown",
	EvCreated:         "created",
	EvConfigured:      "configured",
	EvConfigureFailed: "configure_failed",
	EvStarted:         "started",
	EvStartFailed:     "start_failed",
	EvFault:           "fault",
	EvRecovered:       "recovered",
	EvStopped:         "stopped",
	EvCleanup:         "cleanup",
	EvHdrChanged:      "hdr_changed",
}

// Events lists every dispatchable event.
var Events = []EventKind{
	EvCreated,
	EvConfigured,
	EvConfigureFailed,
	EvStarted,
	EvStartFailed,
	EvFault,
	EvRecovered,
	EvStopped,
	EvCleanup,
	EvHdrChanged,
}

func (e EventKind) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return "unknown"
}
