// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/streamdec/internal/decoder/model"

// Transition is a single allowed edge in the lifecycle state machine.
type Transition struct {
	From  model.State
	To    model.State
	Event EventKind
}

var transitionsTable = []Transition{
	// Setup path
	{From: model.StateUninitialized, To: model.StateCreated, Event: EvCreated},
	{From: model.StateCreated, To: model.StateConfigured, Event: EvConfigured},
	{From: model.StateCreated, To: model.StateError, Event: EvConfigureFailed},

	// Start path (Stopped re-configures before starting)
	{From: model.StateCreated, To: model.StateStarted, Event: EvStarted},
	{From: model.StateConfigured, To: model.StateStarted, Event: EvStarted},
	{From: model.StateStopped, To: model.StateStarted, Event: EvStarted},
	{From: model.StateCreated, To: model.StateError, Event: EvStartFailed},
	{From: model.StateConfigured, To: model.StateError, Event: EvStartFailed},
	{From: model.StateStopped, To: model.StateError, Event: EvStartFailed},

	// Engine faults and recovery
	{From: model.StateStarted, To: model.StateError, Event: EvFault},
	{From: model.StateError, To: model.StateStarted, Event: EvRecovered},

	// Stop keeps the engine
	{From: model.StateCreated, To: model.StateStopped, Event: EvStopped},
	{From: model.StateConfigured, To: model.StateStopped, Event: EvStopped},
	{From: model.StateStarted, To: model.StateStopped, Event: EvStopped},
	{From: model.StateError, To: model.StateStopped, Event: EvStopped},

	// Cleanup drops everything
	{From: model.StateCreated, To: model.StateUninitialized, Event: EvCleanup},
	{From: model.StateConfigured, To: model.StateUninitialized, Event: EvCleanup},
	{From: model.StateStarted, To: model.StateUninitialized, Event: EvCleanup},
	{From: model.StateError, To: model.StateUninitialized, Event: EvCleanup},
	{From: model.StateStopped, To: model.StateUninitialized, Event: EvCleanup},

	// HDR mode flip invalidates a configured engine
	{From: model.StateConfigured, To: model.StateUninitialized, Event: EvHdrChanged},
	{From: model.StateStarted, To: model.StateUninitialized, Event: EvHdrChanged},
	{From: model.StateStopped, To: model.StateUninitialized, Event: EvHdrChanged},
	{From: model.StateError, To: model.StateUninitialized, Event: EvHdrChanged},
}

// TransitionFor returns the allowed transition for a given state+event.
func TransitionFor(from model.State, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}

// Allowed returns the events accepted from a state, in table order.
func Allowed(from model.State) []EventKind {
	var out []EventKind
	for _, tr := range transitionsTable {
		if tr.From == from {
			out = append(out, tr.Event)
		}
	}
	return out
}
