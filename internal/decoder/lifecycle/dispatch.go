// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/streamdec/internal/decoder/model"

// Observer is notified after a transition has been applied.
type Observer func(tr Transition)

// Machine holds the current state and applies table transitions. It is not
// safe for concurrent use; the owning controller serializes access.
type Machine struct {
	state     model.State
	observers []Observer
}

// NewMachine returns a machine in the Uninitialized state.
func NewMachine() *Machine {
	return &Machine{state: model.StateUninitialized}
}

func (m *Machine) State() model.State { return m.state }

// OnTransition registers an observer.
func (m *Machine) OnTransition(fn Observer) {
	m.observers = append(m.observers, fn)
}

// Can reports whether ev has an edge from the current state.
func (m *Machine) Can(ev EventKind) bool {
	_, ok := TransitionFor(m.state, ev)
	return ok
}

// Dispatch is the only entry point that changes state. An illegal event
// leaves the state untouched.
func (m *Machine) Dispatch(ev EventKind) (Transition, error) {
	tr, ok := TransitionFor(m.state, ev)
	if !ok {
		return Transition{}, &IllegalTransitionError{From: m.state, Event: ev}
	}
	m.state = tr.To
	for _, fn := range m.observers {
		fn(tr)
	}
	return tr, nil
}
