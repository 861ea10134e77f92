// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session owns the single decoder session of a process: its
// lifecycle state machine, the engine and surface handles, the input
// submission path, the output drain goroutine and fault recovery.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/streamdec/internal/decoder/lifecycle"
	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/negotiate"
	"github.com/ManuGH/streamdec/internal/decoder/ports"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/metrics"
	"github.com/ManuGH/streamdec/internal/telemetry"
)

const (
	DefaultPollTimeout         = 10 * time.Millisecond
	DefaultMaxRecoveryAttempts = 3
)

// active enforces one session per process.
var active atomic.Bool

// Config tunes negotiation requests and engine timeouts.
type Config struct {
	LowLatency          bool
	AdaptivePlayback    bool
	InputTimeout        time.Duration
	OutputTimeout       time.Duration
	MaxRecoveryAttempts int
}

// DefaultConfig requests every optional feature with the default timeouts.
func DefaultConfig() Config {
	return Config{
		LowLatency:          true,
		AdaptivePlayback:    true,
		InputTimeout:        DefaultPollTimeout,
		OutputTimeout:       DefaultPollTimeout,
		MaxRecoveryAttempts: DefaultMaxRecoveryAttempts,
	}
}

func (c Config) withDefaults() Config {
	if c.InputTimeout <= 0 {
		c.InputTimeout = DefaultPollTimeout
	}
	if c.OutputTimeout <= 0 {
		c.OutputTimeout = DefaultPollTimeout
	}
	if c.MaxRecoveryAttempts <= 0 {
		c.MaxRecoveryAttempts = DefaultMaxRecoveryAttempts
	}
	return c
}

// Deps are the collaborators of a Controller. Only Factory is required.
type Deps struct {
	Factory      ports.Factory
	Selector     ports.DecoderSelector
	Capabilities ports.CapabilityQuerier
	Platform     ports.Platform
	Quirks       *quirks.Registry
}

// Controller is the decoder session. All exported methods are serialized by
// one mutex; the drain goroutine never takes it.
type Controller struct {
	mu sync.Mutex

	cfg     Config
	neg     *negotiate.Negotiator
	machine *lifecycle.Machine
	logger  zerolog.Logger
	tracer  trace.Tracer

	codec   ports.Codec
	surface ports.Surface
	format  *ports.Format
	stream  model.StreamFormat
	plan    negotiate.Plan

	color         model.ColorRequest
	hdr           negotiate.HDRState
	configuredHDR bool

	sessionID string
	lastPTS   int64
	attempts  int

	drain    *drainLoop
	rendered atomic.Int64

	noInputLog   rate.Sometimes
	exhaustedLog rate.Sometimes
	closeOnce    sync.Once
}

// New claims the process-wide session slot. It fails with
// model.ErrSessionExists while another Controller is open.
func New(deps Deps, cfg Config) (*Controller, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, model.ErrSessionExists
	}

	opts := []negotiate.Option{
		negotiate.WithQuirks(deps.Quirks),
	}
	if deps.Selector != nil {
		opts = append(opts, negotiate.WithSelector(deps.Selector))
	}
	if deps.Capabilities != nil {
		opts = append(opts, negotiate.WithCapabilities(deps.Capabilities))
	}
	if deps.Platform != nil {
		opts = append(opts, negotiate.WithPlatform(deps.Platform))
	}

	c := &Controller{
		cfg:     cfg.withDefaults(),
		neg:     negotiate.New(deps.Factory, opts...),
		machine: lifecycle.NewMachine(),
		logger:  log.WithComponent("decoder.session"),
		tracer:  telemetry.Tracer("streamdec/decoder"),
		// No color configuration until SetColorConfig is called.
		color:        model.ColorRequest{Range: -1, Standard: -1, Transfer: -1, ColorSpace: -1},
		noInputLog:   rate.Sometimes{First: 1, Interval: time.Second},
		exhaustedLog: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	c.machine.OnTransition(c.observeTransition)
	metrics.SetDecoderState(string(model.StateUninitialized), stateNames())
	return c, nil
}

func stateNames() []string {
	out := make([]string, len(model.States))
	for i, s := range model.States {
		out[i] = string(s)
	}
	return out
}

func (c *Controller) observeTransition(tr lifecycle.Transition) {
	metrics.RecordTransition(string(tr.From), string(tr.To), tr.Event.String())
	metrics.SetDecoderState(string(tr.To), stateNames())
	c.logger.Info().
		Str(log.FieldOldState, string(tr.From)).
		Str(log.FieldNewState, string(tr.To)).
		Str(log.FieldEvent, tr.Event.String()).
		Msg("decoder state transition")
}

// fire applies a lifecycle event. Illegal events are logged and dropped.
func (c *Controller) fire(ev lifecycle.EventKind) bool {
	if _, err := c.machine.Dispatch(ev); err != nil {
		c.logger.Error().Err(err).
			Str(log.FieldOldState, string(c.machine.State())).
			Str(log.FieldEvent, ev.String()).
			Msg("illegal lifecycle transition")
		return false
	}
	return true
}

func sessionLogger(component, id string) zerolog.Logger {
	return log.Derive(func(c *zerolog.Context) {
		*c = c.Str(log.FieldComponent, component).Str(log.FieldSessionID, id)
	})
}

// State returns the current lifecycle state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// SetPreferences updates the feature requests used by the next Setup.
func (c *Controller) SetPreferences(lowLatency, adaptivePlayback bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.LowLatency = lowLatency
	c.cfg.AdaptivePlayback = adaptivePlayback
}

// SetSurface replaces the rendering surface. The previous binding is
// released regardless of lifecycle state.
func (c *Controller) SetSurface(s ports.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface != nil && c.surface != s {
		c.surface.Release()
	}
	c.surface = s
	if s == nil {
		c.logger.Debug().Msg("surface cleared")
		return
	}
	c.logger.Debug().Str("surface", s.ID()).Msg("surface set")
}

// SetColorConfig stores the color configuration for the next Setup. Negative
// values mark the corresponding part as not supplied.
func (c *Controller) SetColorConfig(colorRange, standard, transfer, colorSpace int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = model.ColorRequest{
		Range:      colorRange,
		Standard:   standard,
		Transfer:   transfer,
		ColorSpace: colorSpace,
	}
	c.logger.Debug().
		Int(log.FieldColorRange, colorRange).
		Int(log.FieldColorSpace, colorSpace).
		Int("color_standard", standard).
		Int("color_transfer", transfer).
		Msg("color configuration stored")
}

// Close runs Cleanup and frees the process-wide session slot.
func (c *Controller) Close() {
	c.Cleanup()
	c.closeOnce.Do(func() { active.Store(false) })
}
