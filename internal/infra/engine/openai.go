package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"docsummary/internal/resilience/circuitbreaker"
	"docsummary/internal/resilience/retry"
	"docsummary/internal/utils/text"
)

// OpenAI implements the Engine interface against any OpenAI-compatible
// chat completion API. It backs two deployment modes: the hosted OpenAI
// service and a locally-served model behind a loopback endpoint.
// Circuit breaker, retry, and rate limiting are built in.
type OpenAI struct {
	client          *openai.Client
	name            string
	settings        Settings
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	limiter         *RateLimiter
	metricsRecorder MetricsRecorder
}

// NewOpenAI creates an engine backed by the hosted OpenAI API.
func NewOpenAI(apiKey string, settings Settings) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	slog.Info("initialized openai engine",
		slog.String("model", settings.Model),
		slog.Duration("timeout", settings.Timeout))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		name:            "openai",
		settings:        settings,
		circuitBreaker:  circuitbreaker.New(breakerConfig(settings, circuitbreaker.OpenAIAPIConfig())),
		retryConfig:     retry.EngineCallConfig(),
		limiter:         NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		metricsRecorder: NewPrometheusEngineMetrics(),
	}, nil
}

// NewLocal creates an engine backed by a locally-served model exposed
// through an OpenAI-compatible endpoint. The model directory must exist
// on disk and the endpoint must resolve to a loopback address; both
// checks fail fast because neither condition heals by retrying.
func NewLocal(modelPath, endpoint string, settings Settings) (*OpenAI, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLocalModel, modelPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidLocalModel, modelPath)
	}

	if err := validateLoopback(endpoint); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig("")
	clientConfig.BaseURL = endpoint

	slog.Info("initialized local engine",
		slog.String("model_path", modelPath),
		slog.String("endpoint", endpoint),
		slog.String("model", settings.Model))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientConfig),
		name:            "local",
		settings:        settings,
		circuitBreaker:  circuitbreaker.New(breakerConfig(settings, circuitbreaker.LocalEngineConfig())),
		retryConfig:     retry.EngineCallConfig(),
		limiter:         NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		metricsRecorder: NewPrometheusEngineMetrics(),
	}, nil
}

// validateLoopback rejects endpoints that would send local-mode traffic
// off the machine.
func validateLoopback(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoopback, endpoint, err)
	}

	host := u.Hostname()
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotLoopback, endpoint)
}

// Name implements Engine.Name.
func (o *OpenAI) Name() string {
	return o.name
}

// Ping verifies the endpoint answers. For the hosted API this checks
// credentials; for local mode it checks the inference server is up.
func (o *OpenAI) Ping(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%s engine ping failed: %w", o.name, err)
	}
	return nil
}

// Close implements Engine.Close. The underlying HTTP client holds no
// resources requiring explicit release.
func (o *OpenAI) Close() error {
	return nil
}

// Summarize generates an abstractive summary of the given text.
// It uses circuit breaker and retry logic for improved reliability.
func (o *OpenAI) Summarize(ctx context.Context, input string, minLength, maxLength int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.settings.Timeout)
	defer cancel()

	if err := o.limiter.Allow(ctx); err != nil {
		return "", fmt.Errorf("%s engine rate limit wait: %w", o.name, err)
	}

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, input, minLength, maxLength)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("engine circuit breaker open, request rejected",
					slog.String("engine", o.name),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("%s engine unavailable: circuit breaker open", o.name)
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("%s summarize failed after retries: %w", o.name, retryErr)
	}

	return result, nil
}

// buildPrompt constructs the summarization prompt with the caller's
// length bounds.
func buildPrompt(input string, minLength, maxLength int) string {
	return fmt.Sprintf(
		"Summarize the following text in %d to %d words. Respond with only the summary.\n\n%s",
		minLength, maxLength, input)
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, input string, minLength, maxLength int) (string, error) {
	// Guard against oversized condensation inputs blowing the context
	// window. Chunked inputs are far below this.
	const maxChars = 10000
	truncated := input
	if len(input) > maxChars {
		truncated = input[:maxChars] + "..."
		slog.Warn("text truncated for engine call",
			slog.String("engine", o.name),
			slog.Int("original_length", len(input)),
			slog.Int("truncated_length", len(truncated)))
	}

	prompt := buildPrompt(truncated, minLength, maxLength)

	slog.InfoContext(ctx, "starting engine call",
		slog.String("engine", o.name),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("min_length", minLength),
		slog.Int("max_length", maxLength))

	start := time.Now()
	o.metricsRecorder.RecordRequest(o.name)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.settings.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})

	duration := time.Since(start)
	o.metricsRecorder.RecordDuration(o.name, duration)

	if err != nil {
		o.metricsRecorder.RecordFailure(o.name)
		slog.ErrorContext(ctx, "engine call failed",
			slog.String("engine", o.name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%s api error: %w", o.name, err)
	}

	// Safety check to prevent panic on array access.
	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordFailure(o.name)
		slog.ErrorContext(ctx, "engine returned empty response",
			slog.String("engine", o.name),
			slog.Duration("duration", duration))
		return "", ErrEmptyResponse
	}

	summary := resp.Choices[0].Message.Content
	summaryLength := text.CountRunes(summary)
	o.metricsRecorder.RecordResponseLength(o.name, summaryLength)

	slog.InfoContext(ctx, "engine call completed",
		slog.String("engine", o.name),
		slog.Int("summary_length", summaryLength),
		slog.Duration("duration", duration))

	return summary, nil
}
