package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"docsummary/internal/resilience/circuitbreaker"
	"docsummary/internal/resilience/retry"
	"docsummary/internal/utils/text"
)

// maxResponseTokens bounds the Claude response size. Summaries in this
// subsystem target at most a few hundred words.
const maxResponseTokens = 1024

// Claude implements the Engine interface using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client          anthropic.Client
	settings        Settings
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	limiter         *RateLimiter
	metricsRecorder MetricsRecorder
}

// NewClaude creates a Claude engine with the given API key.
func NewClaude(apiKey string, settings Settings) (*Claude, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if settings.Model == "" {
		settings.Model = "claude-sonnet-4-5-20250929"
	}

	slog.Info("initialized claude engine",
		slog.String("model", settings.Model),
		slog.Duration("timeout", settings.Timeout))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		settings:        settings,
		circuitBreaker:  circuitbreaker.New(breakerConfig(settings, circuitbreaker.ClaudeAPIConfig())),
		retryConfig:     retry.EngineCallConfig(),
		limiter:         NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		metricsRecorder: NewPrometheusEngineMetrics(),
	}, nil
}

// Name implements Engine.Name.
func (c *Claude) Name() string {
	return "claude"
}

// Ping implements Engine.Ping. The Anthropic API exposes no cheap health
// endpoint, so readiness reduces to having credentials; call failures
// surface through the per-chunk fallback path instead.
func (c *Claude) Ping(_ context.Context) error {
	return nil
}

// Close implements Engine.Close.
func (c *Claude) Close() error {
	return nil
}

// Summarize generates an abstractive summary of the given text using
// Claude. It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Summarize(ctx context.Context, input string, minLength, maxLength int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()

	if err := c.limiter.Allow(ctx); err != nil {
		return "", fmt.Errorf("claude engine rate limit wait: %w", err)
	}

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, input, minLength, maxLength)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("engine circuit breaker open, request rejected",
					slog.String("engine", "claude"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude engine unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, input string, minLength, maxLength int) (string, error) {
	requestID := uuid.New().String()

	const maxChars = 10000
	truncated := input
	if len(input) > maxChars {
		truncated = input[:maxChars] + "..."
		slog.Warn("text truncated for engine call",
			slog.String("engine", "claude"),
			slog.String("request_id", requestID),
			slog.Int("original_length", len(input)),
			slog.Int("truncated_length", len(truncated)))
	}

	prompt := buildPrompt(truncated, minLength, maxLength)

	slog.InfoContext(ctx, "starting engine call",
		slog.String("engine", "claude"),
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("min_length", minLength),
		slog.Int("max_length", maxLength))

	start := time.Now()
	c.metricsRecorder.RecordRequest("claude")

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.settings.Model),
		MaxTokens: int64(maxResponseTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordDuration("claude", duration)

	if err != nil {
		c.metricsRecorder.RecordFailure("claude")
		slog.ErrorContext(ctx, "engine call failed",
			slog.String("engine", "claude"),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		c.metricsRecorder.RecordFailure("claude")
		slog.ErrorContext(ctx, "engine returned empty response",
			slog.String("engine", "claude"),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", ErrEmptyResponse
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		c.metricsRecorder.RecordFailure("claude")
		slog.ErrorContext(ctx, "engine returned unexpected response type",
			slog.String("engine", "claude"),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	summary := textBlock.Text
	summaryLength := text.CountRunes(summary)
	c.metricsRecorder.RecordResponseLength("claude", summaryLength)

	slog.InfoContext(ctx, "engine call completed",
		slog.String("engine", "claude"),
		slog.String("request_id", requestID),
		slog.Int("summary_length", summaryLength),
		slog.Duration("duration", duration))

	return summary, nil
}
