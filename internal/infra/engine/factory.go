package engine

import (
	"context"
	"fmt"

	"docsummary/internal/config"
	"docsummary/internal/resilience/circuitbreaker"
)

// NewFactory builds an engine factory from configuration. Local mode
// (LocalModelPath set) wins over the remote engine selection; local
// construction errors are configuration errors and should not be
// retried, which the factory signals by wrapping ErrInvalidLocalModel
// or ErrNotLoopback.
func NewFactory(cfg *config.SummaryConfig) Factory {
	settings := Settings{
		Model:             cfg.Model,
		Timeout:           cfg.EngineTimeout,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Breaker: &circuitbreaker.Config{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			MinRequests:      cfg.CircuitBreaker.MinRequests,
		},
	}

	return func(ctx context.Context) (Engine, error) {
		var (
			eng Engine
			err error
		)

		if cfg.LocalModelPath != "" {
			eng, err = NewLocal(cfg.LocalModelPath, cfg.LocalEndpoint, settings)
		} else {
			switch cfg.Engine {
			case config.EngineOpenAI:
				eng, err = NewOpenAI(cfg.OpenAIAPIKey, settings)
			case config.EngineClaude:
				eng, err = NewClaude(cfg.AnthropicAPIKey, settings)
			case config.EngineNoop:
				eng = NewNoOp()
			default:
				err = fmt.Errorf("unknown engine %q", cfg.Engine)
			}
		}

		if err != nil {
			return nil, err
		}

		if err := eng.Ping(ctx); err != nil {
			_ = eng.Close()
			return nil, err
		}

		return eng, nil
	}
}
