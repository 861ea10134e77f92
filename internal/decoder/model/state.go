// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

// State is the decoder session lifecycle state.
type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateCreated       State = "CREATED"
	StateConfigured    State = "CONFIGURED"
	StateStarted       State = "STARTED"
	StateError         State = "ERROR"
	StateStopped       State = "STOPPED"
)

// States lists every lifecycle state in declaration order.
var States = []State{
	StateUninitialized,
	StateCreated,
	StateConfigured,
	StateStarted,
	StateError,
	StateStopped,
}

// HasEngine reports whether an engine instance is expected to be held in this state.
func (s State) HasEngine() bool {
	switch s {
	case StateCreated, StateConfigured, StateStarted, StateStopped:
		return true
	default:
		return false
	}
}

// IsConfigured reports whether the engine has been configured against a surface
// at some point during the current Setup generation.
func (s State) IsConfigured() bool {
	switch s {
	case StateConfigured, StateStarted, StateStopped, StateError:
		return true
	default:
		return false
	}
}

func (s State) String() string { return string(s) }
