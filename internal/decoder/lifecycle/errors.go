// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"errors"
	"fmt"

	"github.com/ManuGH/streamdec/internal/decoder/model"
)

var ErrIllegalTransition = errors.New("illegal transition")

// IllegalTransitionError reports an event that has no edge from the current state.
type IllegalTransitionError struct {
	From  model.State
	Event EventKind
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s + %s", e.From, e.Event)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }
