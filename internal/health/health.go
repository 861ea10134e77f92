// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package health provides liveness and readiness checks for the daemon.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/ManuGH/streamdec/internal/log"
)

// Status represents the overall health/readiness status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the full health check response
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptime_seconds"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager manages health and readiness checks
type Manager struct {
	version  string
	started  time.Time
	checkers []Checker
}

func NewManager(version string) *Manager {
	return &Manager{version: version, started: time.Now()}
}

// RegisterChecker adds a checker. Not safe for use after serving starts.
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// run evaluates every checker and folds the worst status.
func (m *Manager) run(ctx context.Context) (map[string]CheckResult, Status) {
	checks := make(map[string]CheckResult, len(m.checkers))
	overall := StatusHealthy
	for _, c := range m.checkers {
		res := c.Check(ctx)
		checks[c.Name()] = res
		switch res.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}
	return checks, overall
}

// Health is the liveness view. Component checks run only when verbose.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(time.Since(m.started).Seconds()),
		Timestamp: time.Now(),
	}
	if verbose && len(m.checkers) > 0 {
		resp.Checks, resp.Status = m.run(ctx)
	}
	return resp
}

// Ready is the readiness view; any unhealthy check makes it not ready.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}
	if len(m.checkers) == 0 {
		return resp
	}
	resp.Checks, resp.Status = m.run(ctx)
	resp.Ready = resp.Status != StatusUnhealthy
	return resp
}

// ServeHealth always answers 200 while the process runs.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), log.WithComponent("health"))
	resp := m.Health(r.Context(), r.URL.Query().Get("verbose") == "true")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "health.encode_error").Msg("failed to encode health response")
	}
}

// ServeReady answers 503 while not ready.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), log.WithComponent("readiness"))
	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "readiness.encode_error").Msg("failed to encode readiness response")
	}
	logger.Debug().
		Str(log.FieldEvent, "readiness.checked").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness check performed")
}

// FileChecker checks that an optional input file exists and is non-empty.
type FileChecker struct {
	name string
	path string
}

func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{name: name, path: path}
}

func (c *FileChecker) Name() string { return c.name }

func (c *FileChecker) Check(context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusUnhealthy, Error: "file not found", Message: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}
	if info.Size() == 0 {
		return CheckResult{Status: StatusDegraded, Message: "file is empty"}
	}
	return CheckResult{Status: StatusHealthy, Message: "file exists and readable"}
}
