// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decoderState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "streamdec_decoder_state",
		Help: "Decoder session lifecycle state (active state=1, others 0)",
	}, []string{"state"})

	decoderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdec_decoder_transitions_total",
		Help: "Total lifecycle transitions by event",
	}, []string{"from", "to", "event"})

	setupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdec_setup_total",
		Help: "Total Setup calls by status",
	}, []string{"status"})

	submitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdec_submit_total",
		Help: "Total submitted access units by result and reason",
	}, []string{"result", "reason"})

	submitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamdec_submit_duration_seconds",
		Help:    "Duration of Submit including the input buffer wait",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2.0, 12), // 50us to ~100ms
	})

	recoveryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdec_recovery_total",
		Help: "Total recovery attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	framesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamdec_frames_rendered_total",
		Help: "Total decoded frames released to the surface",
	})

	surfaceCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamdec_surface_dataspace_corrections_total",
		Help: "Total surface color space corrections",
	})
)

// SetDecoderState records the active lifecycle state.
func SetDecoderState(state string, all []string) {
	for _, s := range all {
		value := 0.0
		if s == state {
			value = 1.0
		}
		decoderState.WithLabelValues(s).Set(value)
	}
}

func RecordTransition(from, to, event string) {
	decoderTransitions.WithLabelValues(from, to, event).Inc()
}

func RecordSetup(status string) {
	setupTotal.WithLabelValues(status).Inc()
}

// RecordSubmit counts a Submit outcome and observes its duration.
func RecordSubmit(result, reason string, d time.Duration) {
	submitTotal.WithLabelValues(result, reason).Inc()
	submitDuration.Observe(d.Seconds())
}

func RecordRecovery(strategy, outcome string) {
	recoveryTotal.WithLabelValues(strategy, outcome).Inc()
}

func IncFramesRendered() {
	framesRendered.Inc()
}

func IncSurfaceCorrection() {
	surfaceCorrections.Inc()
}
