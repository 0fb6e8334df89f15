// Package engine provides abstractive summarization engine adapters.
// It includes OpenAI-compatible and Claude (Anthropic) clients with
// reliability patterns (rate limiting, retry, circuit breaking) plus a
// loopback adapter for locally-served models. Engines are the opaque
// external capability behind the summarization subsystem: given text and
// length bounds they return a condensed text or fail, and every failure
// is recoverable by the extractive tier.
package engine

import (
	"context"
	"errors"
	"time"

	"docsummary/internal/resilience/circuitbreaker"
)

// Engine is the narrow interface to an abstractive summarization
// capability. Implementations must be safe for concurrent use.
type Engine interface {
	// Summarize condenses text to roughly minLength..maxLength words.
	// Any returned error is a signal to fall back, never fatal.
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)

	// Ping verifies the engine is usable. Called during provider
	// bootstrap; a failing ping is retryable unless wrapped in a
	// non-retryable sentinel.
	Ping(ctx context.Context) error

	// Name identifies the engine for logging and metrics.
	Name() string

	// Close releases resources held by the engine.
	Close() error
}

// Factory constructs an Engine on demand. The provider invokes it once
// per load attempt so construction failures participate in the bounded
// retry loop.
type Factory func(ctx context.Context) (Engine, error)

// Settings holds the tuning knobs shared by all engine adapters.
type Settings struct {
	// Model is the model identifier sent with each request.
	Model string

	// Timeout bounds a single Summarize call end to end, including
	// internal retries.
	Timeout time.Duration

	// RequestsPerSecond is the sustained rate allowed by the token
	// bucket limiter.
	RequestsPerSecond float64

	// Burst is the token bucket capacity.
	Burst int

	// Breaker overrides the engine's preset circuit breaker tuning.
	// The preset name is kept either way.
	Breaker *circuitbreaker.Config
}

// breakerConfig resolves the circuit breaker settings for an engine,
// applying the Settings override onto the preset's name.
func breakerConfig(settings Settings, preset circuitbreaker.Config) circuitbreaker.Config {
	if settings.Breaker == nil {
		return preset
	}
	cfg := *settings.Breaker
	cfg.Name = preset.Name
	return cfg
}

// Common errors.
var (
	// ErrMissingAPIKey indicates a remote engine has no credentials.
	ErrMissingAPIKey = errors.New("engine API key is not configured")

	// ErrInvalidLocalModel indicates the configured local model path does
	// not exist or is not a directory. This is a configuration error:
	// retrying cannot fix it.
	ErrInvalidLocalModel = errors.New("local model path is invalid")

	// ErrNotLoopback indicates the local engine endpoint would leave the
	// machine. Local mode is offline-only.
	ErrNotLoopback = errors.New("local engine endpoint must be a loopback address")

	// ErrEmptyResponse indicates the engine answered with no content.
	ErrEmptyResponse = errors.New("engine returned empty response")
)
