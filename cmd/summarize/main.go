// Package main provides a CLI command for summarizing a document.
// Usage: docsummary [--file PATH] [--abstractive] [--load-now] [--output json]
// With no --file the document is read from stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"docsummary/internal/config"
	"docsummary/internal/extract"
	"docsummary/internal/infra/engine"
	"docsummary/internal/observability/logging"
	"docsummary/internal/usecase/summary"
)

// SummaryOutput represents the JSON output format for summary results.
type SummaryOutput struct {
	Summary      string `json:"summary"`
	InputChars   int    `json:"input_chars"`
	SummaryChars int    `json:"summary_chars"`
	Abstractive  bool   `json:"abstractive_requested"`
	EngineState  string `json:"engine_state"`
	DurationMS   int64  `json:"duration_ms"`
}

func main() {
	var (
		filePath      string
		abstractive   bool
		loadNow       bool
		maxChunkChars int
		minLength     int
		maxLength     int
		timeout       time.Duration
		outputFormat  string
	)

	flag.StringVar(&filePath, "file", "", "Path to the document to summarize (default: stdin)")
	flag.BoolVar(&abstractive, "abstractive", false, "Request the abstractive tier when an engine is available")
	flag.BoolVar(&loadNow, "load-now", false, "Pay for one engine load attempt if none is cached")
	flag.IntVar(&maxChunkChars, "max-chunk-chars", 0, "Character budget per abstractive chunk (default: config)")
	flag.IntVar(&minLength, "min-length", 0, "Minimum abstractive summary length in words (default: config)")
	flag.IntVar(&maxLength, "max-length", 0, "Maximum abstractive summary length in words (default: config)")
	flag.DurationVar(&timeout, "timeout", 120*time.Second, "Overall deadline for the summarization call")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	if outputFormat != "text" && outputFormat != "json" {
		fmt.Fprintf(os.Stderr, "Error: Invalid output format '%s' (must be 'text' or 'json')\n", outputFormat)
		os.Exit(1)
	}

	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	logger := initLogger()

	cfg, err := config.LoadSummaryConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	input, err := readInput(filePath)
	if err != nil {
		logger.Error("failed to read input", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to read input: %v\n", err)
		os.Exit(1)
	}

	provider := summary.NewProvider(summary.ProviderConfig{
		Factory:       engine.NewFactory(cfg),
		LocalMode:     cfg.LocalModelPath != "",
		MaxAttempts:   cfg.LoadMaxAttempts,
		BackoffFactor: cfg.LoadBackoffFactor,
		Logger:        logger,
	})
	defer func() {
		if closeErr := provider.Close(); closeErr != nil {
			logger.Error("failed to close engine", slog.Any("error", closeErr))
		}
	}()

	var extractOpts []extract.Option
	if len(cfg.Stopwords) > 0 {
		extractOpts = append(extractOpts, extract.WithStopwords(cfg.Stopwords))
	}

	orchestrator := summary.NewOrchestrator(summary.OrchestratorConfig{
		Provider:        provider,
		Extractive:      extract.NewSummarizer(extractOpts...),
		ForceExtractive: cfg.ForceExtractive,
		Defaults: summary.Options{
			MaxChunkChars: cfg.MaxChunkChars,
			MinLength:     cfg.MinLength,
			MaxLength:     cfg.MaxLength,
		},
		Logger: logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("summarizing document",
		slog.Int("input_chars", len(input)),
		slog.Bool("abstractive", abstractive),
		slog.Bool("load_now", loadNow))

	start := time.Now()
	result := orchestrator.Summarize(ctx, input, summary.Options{
		MaxChunkChars: maxChunkChars,
		MinLength:     minLength,
		MaxLength:     maxLength,
		Abstractive:   abstractive,
		ForceLoadNow:  loadNow,
	})
	duration := time.Since(start)

	if outputFormat == "json" {
		outputJSON(SummaryOutput{
			Summary:      result,
			InputChars:   len(input),
			SummaryChars: len(result),
			Abstractive:  abstractive,
			EngineState:  provider.State().String(),
			DurationMS:   duration.Milliseconds(),
		})
	} else {
		fmt.Println(result)
	}
}

// readInput reads the document from the given file, or stdin when no
// file is specified.
func readInput(filePath string) (string, error) {
	if filePath == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from the operator's command line.
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	return string(data), nil
}

// outputJSON prints the result in JSON format.
func outputJSON(output SummaryOutput) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}
