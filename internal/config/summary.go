// Package config loads summarization configuration from environment
// variables, with an optional YAML file for the extractive stopword set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine identifiers accepted by SUMMARY_ENGINE.
const (
	EngineOpenAI = "openai"
	EngineClaude = "claude"
	EngineNoop   = "noop"
)

// SummaryConfig holds configuration for the summarization subsystem.
type SummaryConfig struct {
	// ForceExtractive short-circuits every request to the extractive
	// tier. Highest-priority override.
	// Env: FORCE_EXTRACTIVE_SUMMARY ("1", "true" or "yes")
	ForceExtractive bool

	// LocalModelPath points at a locally-downloaded model directory.
	// When set, engine loading is offline-only and GetOrLoad loads
	// eagerly instead of returning nil.
	// Env: LOCAL_SUMMARY_MODEL
	LocalModelPath string

	// LocalEndpoint is the loopback OpenAI-compatible endpoint serving
	// the local model. Only consulted when LocalModelPath is set.
	// Env: LOCAL_SUMMARY_ENDPOINT. Default: "http://127.0.0.1:8080/v1"
	LocalEndpoint string

	// Engine selects the abstractive engine implementation.
	// Env: SUMMARY_ENGINE ("openai", "claude", "noop"). Default: "openai"
	Engine string

	// Model is the named remote model reference.
	// Env: SUMMARY_MODEL. Default: "gpt-4o-mini"
	Model string

	// OpenAIAPIKey and AnthropicAPIKey authenticate the remote engines.
	// Env: OPENAI_API_KEY, ANTHROPIC_API_KEY
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// MaxChunkChars is the character budget per abstractive chunk.
	// Env: SUMMARY_MAX_CHUNK_CHARS. Default: 1200
	MaxChunkChars int

	// MinLength and MaxLength bound the abstractive summary length.
	// Env: SUMMARY_MIN_LENGTH (default 50), SUMMARY_MAX_LENGTH (default 200)
	MinLength int
	MaxLength int

	// LoadMaxAttempts bounds engine bootstrap retries.
	// Env: SUMMARY_LOAD_MAX_ATTEMPTS. Default: 3
	LoadMaxAttempts int

	// LoadBackoffFactor is the exponential backoff base between load
	// attempts: the wait after attempt n is LoadBackoffFactor^n seconds.
	// Env: SUMMARY_LOAD_BACKOFF_FACTOR. Default: 1.5
	LoadBackoffFactor float64

	// EngineTimeout is the per-call deadline for a single engine request.
	// Env: SUMMARY_ENGINE_TIMEOUT. Default: 60s
	EngineTimeout time.Duration

	// RateLimit throttles engine calls.
	RateLimit RateLimitConfig

	// CircuitBreaker for engine calls.
	CircuitBreaker CircuitBreakerConfig

	// StopwordsFile optionally overrides the built-in extractive
	// stopword set. Env: SUMMARY_STOPWORDS_FILE
	StopwordsFile string

	// Stopwords is the loaded override; nil means use the default set.
	Stopwords []string
}

// RateLimitConfig throttles outbound engine calls.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate.
	// Env: SUMMARY_RATE_LIMIT_RPS. Default: 2.0
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	// Env: SUMMARY_RATE_LIMIT_BURST. Default: 5
	Burst int
}

// CircuitBreakerConfig for engine call resilience.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32

	// Interval for clearing failure counts.
	Interval time.Duration

	// Timeout before transitioning from open to half-open.
	Timeout time.Duration

	// FailureThreshold ratio to trip the circuit (0.0 to 1.0).
	FailureThreshold float64

	// MinRequests before calculating the failure ratio.
	MinRequests uint32
}

// stopwordsFile is the YAML schema for the stopword override file.
type stopwordsFile struct {
	Stopwords []string `yaml:"stopwords"`
}

// LoadSummaryConfig loads summarization configuration from environment
// variables, applying defaults for anything unset, and reads the
// stopword override file when configured.
func LoadSummaryConfig() (*SummaryConfig, error) {
	cfg := &SummaryConfig{
		ForceExtractive:   getEnvSwitch("FORCE_EXTRACTIVE_SUMMARY"),
		LocalModelPath:    strings.TrimSpace(os.Getenv("LOCAL_SUMMARY_MODEL")),
		LocalEndpoint:     getEnvOrDefault("LOCAL_SUMMARY_ENDPOINT", "http://127.0.0.1:8080/v1"),
		Engine:            getEnvOrDefault("SUMMARY_ENGINE", EngineOpenAI),
		Model:             getEnvOrDefault("SUMMARY_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		MaxChunkChars:     getEnvInt("SUMMARY_MAX_CHUNK_CHARS", 1200),
		MinLength:         getEnvInt("SUMMARY_MIN_LENGTH", 50),
		MaxLength:         getEnvInt("SUMMARY_MAX_LENGTH", 200),
		LoadMaxAttempts:   getEnvInt("SUMMARY_LOAD_MAX_ATTEMPTS", 3),
		LoadBackoffFactor: getEnvFloat("SUMMARY_LOAD_BACKOFF_FACTOR", 1.5),
		EngineTimeout:     getEnvDuration("SUMMARY_ENGINE_TIMEOUT", 60*time.Second),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("SUMMARY_RATE_LIMIT_RPS", 2.0),
			Burst:             getEnvInt("SUMMARY_RATE_LIMIT_BURST", 5),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(getEnvInt("SUMMARY_CB_MAX_REQUESTS", 3)),
			Interval:         getEnvDuration("SUMMARY_CB_INTERVAL", 30*time.Second),
			Timeout:          getEnvDuration("SUMMARY_CB_TIMEOUT", 60*time.Second),
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		StopwordsFile: os.Getenv("SUMMARY_STOPWORDS_FILE"),
	}

	if cfg.StopwordsFile != "" {
		words, err := loadStopwords(cfg.StopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("loading stopwords file: %w", err)
		}
		cfg.Stopwords = words
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summary configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration correctness.
func (c *SummaryConfig) Validate() error {
	switch c.Engine {
	case EngineOpenAI, EngineClaude, EngineNoop:
	default:
		return fmt.Errorf("SUMMARY_ENGINE must be one of %q, %q, %q", EngineOpenAI, EngineClaude, EngineNoop)
	}

	if c.Model == "" {
		return fmt.Errorf("SUMMARY_MODEL cannot be empty")
	}

	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("SUMMARY_MAX_CHUNK_CHARS must be positive")
	}

	if c.MinLength <= 0 {
		return fmt.Errorf("SUMMARY_MIN_LENGTH must be positive")
	}

	if c.MaxLength < c.MinLength {
		return fmt.Errorf("SUMMARY_MAX_LENGTH must be >= SUMMARY_MIN_LENGTH")
	}

	if c.LoadMaxAttempts <= 0 {
		return fmt.Errorf("SUMMARY_LOAD_MAX_ATTEMPTS must be positive")
	}

	if c.LoadBackoffFactor <= 1.0 {
		return fmt.Errorf("SUMMARY_LOAD_BACKOFF_FACTOR must be greater than 1.0")
	}

	if c.EngineTimeout <= 0 {
		return fmt.Errorf("SUMMARY_ENGINE_TIMEOUT must be positive")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("SUMMARY_RATE_LIMIT_RPS must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("SUMMARY_RATE_LIMIT_BURST must be positive")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("SUMMARY_CB_MAX_REQUESTS must be positive")
	}

	if c.CircuitBreaker.Interval <= 0 {
		return fmt.Errorf("SUMMARY_CB_INTERVAL must be positive")
	}

	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("SUMMARY_CB_TIMEOUT must be positive")
	}

	return nil
}

// loadStopwords reads the stopword override file.
func loadStopwords(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration.
	if err != nil {
		return nil, err
	}

	var file stopwordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(file.Stopwords) == 0 {
		return nil, fmt.Errorf("%s defines no stopwords", path)
	}

	return file.Stopwords, nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSwitch parses a permissive boolean switch: "1", "true" and "yes"
// (case-insensitive) enable it, anything else leaves it off.
func getEnvSwitch(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
