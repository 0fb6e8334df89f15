// Package metrics provides centralized Prometheus metrics for monitoring
// the summarization subsystem.
//
// Metrics cover three areas:
//   - Request outcomes: which tier served a request, latency, summary length
//   - Degradation: tier fallbacks and per-chunk recovery counts
//   - Provider lifecycle: engine load attempts and current state
//
// All metrics are registered with the default Prometheus registry via
// promauto; the host process decides how to expose them.
//
// Example usage:
//
//	import "docsummary/internal/observability/metrics"
//
//	metrics.RecordTierSelected(metrics.TierExtractive)
//	metrics.RecordProviderLoadAttempt(false)
package metrics
