// Package metrics exposes Prometheus instrumentation for the assistant.
// Metrics are diagnostic only and are never consulted by the dialog or
// eligibility logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "assistant_turn_duration_seconds",
			Help: "Duration of turn processing, excluding AI capability latency",
		},
	)

	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_capability_calls_total",
			Help: "Total calls to an AI capability",
		},
		[]string{"capability"},
	)

	CapabilityFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_capability_failures_total",
			Help: "AI capability calls that failed, timed out, or were rejected",
		},
		[]string{"capability", "reason"},
	)

	FallbacksTaken = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_fallbacks_total",
			Help: "Turns that fell back to the deterministic path",
		},
		[]string{"capability"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_sessions",
			Help: "Number of live conversation sessions",
		},
	)

	SessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_sessions_swept_total",
			Help: "Sessions removed by the idle sweep",
		},
	)
)
