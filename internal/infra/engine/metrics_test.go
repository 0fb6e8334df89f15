package engine

import (
	"testing"
	"time"
)

func TestNewPrometheusEngineMetrics_Singleton(t *testing.T) {
	first := NewPrometheusEngineMetrics()
	second := NewPrometheusEngineMetrics()

	if first != second {
		t.Error("expected the same recorder instance on repeated calls")
	}
}

func TestPrometheusEngineMetrics_Record(t *testing.T) {
	recorder := NewPrometheusEngineMetrics()

	// Recording must not panic for any label value.
	recorder.RecordRequest("openai")
	recorder.RecordFailure("openai")
	recorder.RecordDuration("claude", 250*time.Millisecond)
	recorder.RecordResponseLength("local", 180)
}
