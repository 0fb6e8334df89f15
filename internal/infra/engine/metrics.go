package engine

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder defines the interface for recording engine call metrics.
// Abstracting the recorder keeps the adapters testable without a live
// Prometheus registry and leaves room to swap metrics backends.
type MetricsRecorder interface {
	// RecordRequest increments the request counter for an engine.
	RecordRequest(engine string)

	// RecordFailure increments the failure counter for an engine.
	RecordFailure(engine string)

	// RecordDuration records the time taken by a single engine call.
	RecordDuration(engine string, duration time.Duration)

	// RecordResponseLength records the length of an engine response in runes.
	RecordResponseLength(engine string, length int)
}

// PrometheusEngineMetrics implements MetricsRecorder using Prometheus.
type PrometheusEngineMetrics struct {
	requestCounter    *prometheus.CounterVec
	failureCounter    *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
	lengthHistogram   *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusEngineMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateCounterVec gets an existing counter vector or creates a new one.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateHistogramVec gets an existing histogram vector or creates a new one.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// NewPrometheusEngineMetrics creates a Prometheus-based metrics recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusEngineMetrics() *PrometheusEngineMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusEngineMetrics{
			requestCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summary_engine_requests_total",
				Help: "Total number of abstractive engine calls",
			}, []string{"engine"}),
			failureCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summary_engine_failures_total",
				Help: "Total number of failed abstractive engine calls",
			}, []string{"engine"}),
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summary_engine_request_duration_seconds",
				Help:    "Time taken by a single abstractive engine call",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}, []string{"engine"}),
			lengthHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summary_engine_response_length_chars",
				Help:    "Distribution of engine response lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 400, 800, 1600},
			}, []string{"engine"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.RecordRequest
func (p *PrometheusEngineMetrics) RecordRequest(engine string) {
	p.requestCounter.WithLabelValues(engine).Inc()
}

// RecordFailure implements MetricsRecorder.RecordFailure
func (p *PrometheusEngineMetrics) RecordFailure(engine string) {
	p.failureCounter.WithLabelValues(engine).Inc()
}

// RecordDuration implements MetricsRecorder.RecordDuration
func (p *PrometheusEngineMetrics) RecordDuration(engine string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordResponseLength implements MetricsRecorder.RecordResponseLength
func (p *PrometheusEngineMetrics) RecordResponseLength(engine string, length int) {
	p.lengthHistogram.WithLabelValues(engine).Observe(float64(length))
}
