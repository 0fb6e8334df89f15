// Package metrics provides centralized Prometheus metrics for the summarization subsystem.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summarization metrics track tier selection and outcome quality.
var (
	// SummariesTotal counts completed summarization requests by tier.
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of summarization requests by selected tier",
		},
		[]string{"tier"},
	)

	// TierFallbacksTotal counts tier downgrades by reason.
	TierFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_tier_fallbacks_total",
			Help: "Total number of tier fallbacks by reason",
		},
		[]string{"reason"},
	)

	// ChunkSummariesTotal counts per-chunk abstractive calls by status.
	ChunkSummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_chunk_calls_total",
			Help: "Total number of per-chunk engine calls by status",
		},
		[]string{"status"},
	)

	// SummarizeDuration measures end-to-end summarization latency.
	SummarizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarize_duration_seconds",
			Help:    "End-to-end summarization duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"tier"},
	)

	// SummaryLengthChars measures produced summary lengths in runes.
	SummaryLengthChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_length_characters",
			Help:    "Distribution of summary lengths in characters (Unicode runes)",
			Buckets: []float64{50, 100, 200, 400, 800, 1200, 2000, 4000},
		},
	)
)

// Provider metrics track the abstractive engine lifecycle.
var (
	// ProviderLoadAttemptsTotal counts engine bootstrap attempts by outcome.
	ProviderLoadAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_provider_load_attempts_total",
			Help: "Total number of abstractive engine load attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ProviderState exposes the provider lifecycle state.
	// 0 = unloaded, 1 = loading, 2 = ready, 3 = unavailable
	ProviderState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "summary_provider_state",
			Help: "Abstractive provider state (0=unloaded, 1=loading, 2=ready, 3=unavailable)",
		},
	)
)
