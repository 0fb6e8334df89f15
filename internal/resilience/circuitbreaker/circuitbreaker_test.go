package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestNew(t *testing.T) {
	cb := New(DefaultConfig("test"))

	if cb == nil {
		t.Fatal("expected circuit breaker, got nil")
	}
	if cb.Name() != "test" {
		t.Errorf("expected name 'test', got %s", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %v", cb.State())
	}
}

func TestExecute_Success(t *testing.T) {
	cb := New(DefaultConfig("test"))

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected 'ok', got %v", result)
	}
}

func TestExecute_Failure(t *testing.T) {
	cb := New(DefaultConfig("test"))
	testErr := errors.New("engine call failed")

	_, err := cb.Execute(func() (interface{}, error) {
		return nil, testErr
	})

	if !errors.Is(err, testErr) {
		t.Errorf("expected test error, got %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("single failure should not trip the circuit, got %v", cb.State())
	}
}

func TestExecute_TripsAfterThreshold(t *testing.T) {
	cfg := Config{
		Name:             "trip-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      4,
	}
	cb := New(cfg)
	testErr := errors.New("persistent failure")

	for i := 0; i < 6; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, testErr
		})
	}

	if !cb.IsOpen() {
		t.Errorf("expected open circuit after persistent failures, got %v", cb.State())
	}

	// Calls through an open circuit are rejected immediately.
	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function should not run while circuit is open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}

func TestPresetConfigs(t *testing.T) {
	for _, cfg := range []Config{ClaudeAPIConfig(), OpenAIAPIConfig(), LocalEngineConfig()} {
		if cfg.Name == "" {
			t.Error("preset config missing name")
		}
		if cfg.FailureThreshold <= 0 || cfg.FailureThreshold > 1 {
			t.Errorf("%s: failure threshold out of range: %f", cfg.Name, cfg.FailureThreshold)
		}
		if cfg.MinRequests == 0 {
			t.Errorf("%s: MinRequests must be positive", cfg.Name)
		}
	}
}
