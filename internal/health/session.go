// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"fmt"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/session"
)

// SnapshotSource exposes the decoder session record.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// SessionChecker maps the session lifecycle onto health. Only a started
// session with a running drain loop is healthy.
type SessionChecker struct {
	source      SnapshotSource
	maxAttempts int
}

func NewSessionChecker(source SnapshotSource, maxRecoveryAttempts int) *SessionChecker {
	if maxRecoveryAttempts <= 0 {
		maxRecoveryAttempts = session.DefaultMaxRecoveryAttempts
	}
	return &SessionChecker{source: source, maxAttempts: maxRecoveryAttempts}
}

func (c *SessionChecker) Name() string { return "decoder_session" }

func (c *SessionChecker) Check(context.Context) CheckResult {
	snap := c.source.Snapshot()
	switch snap.State {
	case model.StateStarted:
		if !snap.DrainRunning {
			return CheckResult{Status: StatusDegraded, Message: "output drain not running"}
		}
		return CheckResult{Status: StatusHealthy, Message: "decoding with " + snap.Decoder}
	case model.StateError:
		if snap.RecoveryAttempts >= c.maxAttempts {
			return CheckResult{Status: StatusUnhealthy, Error: "recovery exhausted", Message: fmt.Sprintf("%d attempts", snap.RecoveryAttempts)}
		}
		return CheckResult{Status: StatusDegraded, Message: "recovering"}
	default:
		return CheckResult{Status: StatusUnhealthy, Message: "session " + string(snap.State)}
	}
}
