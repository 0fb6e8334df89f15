package metrics

import "time"

// Tier labels for summarization metrics.
const (
	TierExtractive  = "extractive"
	TierAbstractive = "abstractive"
	TierEmpty       = "empty"
)

// Fallback reason labels.
const (
	FallbackProviderUnavailable = "provider_unavailable"
	FallbackChunkFailure        = "chunk_failure"
	FallbackCondensation        = "condensation_failure"
	FallbackEmptyResult         = "empty_result"
)

// RecordTierSelected records which tier produced a summary.
func RecordTierSelected(tier string) {
	SummariesTotal.WithLabelValues(tier).Inc()
}

// RecordTierFallback records a downgrade from the abstractive tier.
func RecordTierFallback(reason string) {
	TierFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordChunkSummary records the outcome of a single per-chunk engine call.
// Status is "success" when the engine answered, "fallback" when the chunk
// was recovered extractively.
func RecordChunkSummary(success bool) {
	status := "success"
	if !success {
		status = "fallback"
	}
	ChunkSummariesTotal.WithLabelValues(status).Inc()
}

// RecordSummarizeDuration records end-to-end latency for a request.
func RecordSummarizeDuration(tier string, duration time.Duration) {
	SummarizeDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordSummaryLength records the length of a produced summary in runes.
func RecordSummaryLength(length int) {
	SummaryLengthChars.Observe(float64(length))
}

// RecordProviderLoadAttempt records one engine bootstrap attempt.
func RecordProviderLoadAttempt(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	ProviderLoadAttemptsTotal.WithLabelValues(outcome).Inc()
}

// SetProviderState updates the provider lifecycle gauge.
func SetProviderState(state int) {
	ProviderState.Set(float64(state))
}
