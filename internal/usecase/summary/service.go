// Package summary implements the tiered summarization policy: an
// always-available extractive tier, an optional abstractive tier behind
// a lazily-loaded engine, and the orchestration that chooses between
// them. Summarize is total: it always returns a string, degrading from
// abstractive to extractive rather than failing.
package summary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docsummary/internal/extract"
	"docsummary/internal/infra/engine"
	"docsummary/internal/observability/metrics"
	"docsummary/internal/observability/tracing"
	"docsummary/internal/utils/text"
)

// Orchestrator decides the summarization tier for each request and
// drives chunk-wise abstractive summarization with extractive fallbacks.
// Per-request logic is stateless; the provider is the only shared state.
type Orchestrator struct {
	provider        *Provider
	extractive      *extract.Summarizer
	forceExtractive bool
	defaults        Options
	logger          *slog.Logger
	tracer          trace.Tracer
}

// OrchestratorConfig configures an Orchestrator.
type OrchestratorConfig struct {
	// Provider supplies the abstractive engine. Required.
	Provider *Provider

	// Extractive is the offline tier. Required.
	Extractive *extract.Summarizer

	// ForceExtractive short-circuits every request to the extractive
	// tier. Highest-priority override.
	ForceExtractive bool

	// Defaults fill in zero-valued per-request options.
	Defaults Options

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defaults := cfg.Defaults
	if defaults.MaxChunkChars <= 0 {
		defaults.MaxChunkChars = 1200
	}
	if defaults.MinLength <= 0 {
		defaults.MinLength = 50
	}
	if defaults.MaxLength < defaults.MinLength {
		defaults.MaxLength = 4 * defaults.MinLength
	}

	return &Orchestrator{
		provider:        cfg.Provider,
		extractive:      cfg.Extractive,
		forceExtractive: cfg.ForceExtractive,
		defaults:        defaults,
		logger:          logger,
		tracer:          tracing.GetTracer(),
	}
}

// normalize fills zero-valued options from the orchestrator defaults.
func (o *Orchestrator) normalize(opts Options) Options {
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = o.defaults.MaxChunkChars
	}
	if opts.MinLength <= 0 {
		opts.MinLength = o.defaults.MinLength
	}
	if opts.MaxLength < opts.MinLength {
		opts.MaxLength = o.defaults.MaxLength
	}
	if opts.MaxLength < opts.MinLength {
		opts.MaxLength = opts.MinLength
	}
	return opts
}

// Summarize produces a summary for the given document. It never returns
// an error: engine trouble degrades the result to the extractive tier.
// The only caller-visible failure mode is cancellation of ctx, which
// still yields a string (extractive output needs no engine).
func (o *Orchestrator) Summarize(ctx context.Context, input string, opts Options) string {
	requestID := uuid.New().String()
	opts = o.normalize(opts)
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "summarize",
		trace.WithAttributes(
			attribute.String("request_id", requestID),
			attribute.Int("input_chars", len(input)),
			attribute.Bool("abstractive", opts.Abstractive),
		))
	defer span.End()

	logger := o.logger.With(slog.String("request_id", requestID))

	if strings.TrimSpace(input) == "" {
		metrics.RecordTierSelected(metrics.TierEmpty)
		span.SetAttributes(attribute.String("tier", metrics.TierEmpty))
		return ""
	}

	if o.forceExtractive {
		logger.Info("force-extractive override active")
		return o.finishExtractive(ctx, logger, span, input, extractiveTargetSentences, start)
	}

	if !opts.Abstractive {
		return o.finishExtractive(ctx, logger, span, input, extractiveTargetSentences, start)
	}

	eng := o.acquireEngine(ctx, opts)
	if eng == nil {
		metrics.RecordTierFallback(metrics.FallbackProviderUnavailable)
		logger.Info("abstractive engine not available, using extractive tier",
			slog.String("provider_state", o.provider.State().String()))
		return o.finishExtractive(ctx, logger, span, input, fallbackTargetSentences, start)
	}

	result := o.summarizeAbstractive(ctx, logger, eng, input, opts)
	if result == "" {
		metrics.RecordTierFallback(metrics.FallbackEmptyResult)
		logger.Warn("abstractive tier produced empty result, using extractive tier")
		return o.finishExtractive(ctx, logger, span, input, fallbackTargetSentences, start)
	}

	duration := time.Since(start)
	metrics.RecordTierSelected(metrics.TierAbstractive)
	metrics.RecordSummarizeDuration(metrics.TierAbstractive, duration)
	metrics.RecordSummaryLength(text.CountRunes(result))
	span.SetAttributes(attribute.String("tier", metrics.TierAbstractive))

	logger.Info("summarization completed",
		slog.String("tier", metrics.TierAbstractive),
		slog.Int("summary_length", text.CountRunes(result)),
		slog.Duration("duration", duration))

	return result
}

// finishExtractive runs the extractive tier and records its outcome.
func (o *Orchestrator) finishExtractive(ctx context.Context, logger *slog.Logger, span trace.Span, input string, sentences int, start time.Time) string {
	_, extractSpan := o.tracer.Start(ctx, "extract.summarize")
	result := o.extractive.Summarize(input, sentences)
	extractSpan.End()

	duration := time.Since(start)
	metrics.RecordTierSelected(metrics.TierExtractive)
	metrics.RecordSummarizeDuration(metrics.TierExtractive, duration)
	metrics.RecordSummaryLength(text.CountRunes(result))
	span.SetAttributes(attribute.String("tier", metrics.TierExtractive))

	logger.Info("summarization completed",
		slog.String("tier", metrics.TierExtractive),
		slog.Int("target_sentences", sentences),
		slog.Int("summary_length", text.CountRunes(result)),
		slog.Duration("duration", duration))

	return result
}

// acquireEngine resolves the engine for an abstractive request. It
// returns the cached engine when the provider is Ready, loads eagerly
// in local-model mode, pays for a single forced attempt when the
// request asked for it, and otherwise returns nil without blocking.
func (o *Orchestrator) acquireEngine(ctx context.Context, opts Options) engine.Engine {
	ctx, span := o.tracer.Start(ctx, "provider.load")
	defer span.End()

	if eng := o.provider.GetOrLoad(ctx, false, 0); eng != nil {
		return eng
	}
	if opts.ForceLoadNow {
		return o.provider.GetOrLoad(ctx, true, 1)
	}
	return nil
}

// summarizeAbstractive drives the chunk-wise abstractive path: tokenize,
// chunk, summarize each chunk (with per-chunk extractive fallback),
// join in document order, and condense once if the join still exceeds
// the chunk budget.
func (o *Orchestrator) summarizeAbstractive(ctx context.Context, logger *slog.Logger, eng engine.Engine, input string, opts Options) string {
	sentences := extract.Tokenize(input)
	chunks := extract.SplitChunks(sentences, opts.MaxChunkChars)

	logger.Info("starting abstractive summarization",
		slog.String("engine", eng.Name()),
		slog.Int("sentences", len(sentences)),
		slog.Int("chunks", len(chunks)))

	// Results are index-addressed so document order survives the
	// parallel fan-out.
	results := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChunkSummaries)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			_, span := o.tracer.Start(gctx, "engine.summarize_chunk",
				trace.WithAttributes(attribute.Int("chunk_index", i)))
			defer span.End()

			summarized, err := o.provider.SummarizeChunk(gctx, eng, chunk, opts.MinLength, opts.MaxLength)
			if err != nil {
				metrics.RecordChunkSummary(false)
				metrics.RecordTierFallback(metrics.FallbackChunkFailure)
				logger.Warn("chunk summarization failed, falling back",
					slog.Int("chunk_index", i),
					slog.Any("error", err))
				results[i] = o.extractive.Summarize(chunk, chunkFallbackSentences)
				return nil
			}

			metrics.RecordChunkSummary(true)
			results[i] = strings.TrimSpace(summarized)
			return nil
		})
	}
	// Workers never return errors; failures are absorbed per chunk.
	_ = g.Wait()

	nonEmpty := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			nonEmpty = append(nonEmpty, r)
		}
	}
	combined := strings.Join(nonEmpty, " ")

	if len(combined) > opts.MaxChunkChars {
		combined = o.condense(ctx, logger, eng, combined, opts)
	}

	return combined
}

// condense runs a single second-pass summarization over the combined
// chunk summaries. The minimum length is halved (floor 10) so the pass
// has room to shrink the text. Failure keeps the uncondensed text.
func (o *Orchestrator) condense(ctx context.Context, logger *slog.Logger, eng engine.Engine, combined string, opts Options) string {
	minLength := opts.MinLength / 2
	if minLength < condensationMinLengthFloor {
		minLength = condensationMinLengthFloor
	}

	_, span := o.tracer.Start(ctx, "engine.condense")
	defer span.End()

	condensed, err := o.provider.SummarizeChunk(ctx, eng, combined, minLength, opts.MaxLength)
	if err != nil {
		metrics.RecordTierFallback(metrics.FallbackCondensation)
		logger.Warn("condensation pass failed, keeping combined summary",
			slog.Int("combined_length", len(combined)),
			slog.Any("error", err))
		return combined
	}

	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		metrics.RecordTierFallback(metrics.FallbackCondensation)
		return combined
	}
	return condensed
}
