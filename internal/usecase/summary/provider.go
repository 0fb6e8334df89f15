package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"docsummary/internal/infra/engine"
	"docsummary/internal/observability/metrics"
)

// State describes the provider lifecycle.
type State int

// Provider lifecycle states. Unavailable is sticky: once a load cycle
// exhausts its attempts, only a forced reload can try again.
const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateUnavailable
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ProviderConfig configures the abstractive provider.
type ProviderConfig struct {
	// Factory constructs the engine on each load attempt.
	Factory engine.Factory

	// LocalMode marks a configured local model path. It makes GetOrLoad
	// load eagerly instead of returning nil on the default path, and it
	// marks configuration errors as not worth retrying.
	LocalMode bool

	// MaxAttempts bounds a single load cycle. Minimum 1.
	MaxAttempts int

	// BackoffFactor is the exponential base for inter-attempt waits:
	// the wait after attempt n is BackoffFactor^n seconds. Must be > 1
	// so waits strictly increase.
	BackoffFactor float64

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Provider is the lazily-initialized handle to the abstractive engine.
// It owns the bounded-retry bootstrap and the process-wide availability
// state. All methods are safe for concurrent use; concurrent loads are
// collapsed into one via singleflight.
type Provider struct {
	mu      sync.Mutex
	state   State
	engine  engine.Engine
	lastErr error

	factory       engine.Factory
	localMode     bool
	maxAttempts   int
	backoffFactor float64
	logger        *slog.Logger

	group singleflight.Group

	// wait is the inter-attempt delay, cancelable through ctx.
	// Overridable in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewProvider creates a provider in the Unloaded state.
func NewProvider(cfg ProviderConfig) *Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffFactor <= 1.0 {
		cfg.BackoffFactor = 1.5
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		state:         StateUnloaded,
		factory:       cfg.Factory,
		localMode:     cfg.LocalMode,
		maxAttempts:   cfg.MaxAttempts,
		backoffFactor: cfg.BackoffFactor,
		logger:        logger,
		wait:          sleepWait,
	}
	metrics.SetProviderState(int(StateUnloaded))
	return p
}

// sleepWait blocks for d or until ctx is canceled.
func sleepWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Ready reports whether a live engine is cached.
func (p *Provider) Ready() bool {
	return p.State() == StateReady
}

// LastError returns the most recent load failure, if any.
func (p *Provider) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// setState updates the lifecycle state and the observability gauge.
// Caller must hold p.mu.
func (p *Provider) setState(s State) {
	p.state = s
	metrics.SetProviderState(int(s))
}

// Load attempts engine bootstrap up to maxAttempts times, waiting
// BackoffFactor^n seconds after attempt n. maxAttempts <= 0 uses the
// configured default. Concurrent callers share one load cycle. On
// success the engine is cached and state becomes Ready; on exhaustion
// state becomes Unavailable and the last error is recorded. Cancellation
// restores the state the load started from.
func (p *Provider) Load(ctx context.Context, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = p.maxAttempts
	}

	_, err, _ := p.group.Do("load", func() (interface{}, error) {
		return nil, p.doLoad(ctx, maxAttempts)
	})
	return err
}

// doLoad runs one load cycle. Only one goroutine executes it at a time.
func (p *Provider) doLoad(ctx context.Context, maxAttempts int) error {
	p.mu.Lock()
	prior := p.state
	p.setState(StateLoading)
	p.mu.Unlock()

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		eng, err := p.factory(ctx)
		if err == nil {
			p.mu.Lock()
			p.engine = eng
			p.lastErr = nil
			p.setState(StateReady)
			p.mu.Unlock()

			metrics.RecordProviderLoadAttempt(true)
			p.logger.Info("abstractive engine loaded",
				slog.String("engine", eng.Name()),
				slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		metrics.RecordProviderLoadAttempt(false)
		p.logger.Warn("engine load attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Any("error", err))

		// Configuration errors cannot heal by retrying.
		if isConfigError(err) {
			p.fail(fmt.Errorf("%w: %v", ErrLoadExhausted, err))
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(math.Pow(p.backoffFactor, float64(attempt)) * float64(time.Second))
		if waitErr := p.wait(ctx, delay); waitErr != nil {
			// Canceled mid-cycle: restore the pre-load state so a later
			// request can try again.
			p.mu.Lock()
			p.setState(prior)
			p.lastErr = fmt.Errorf("%w: %v", ErrLoadAborted, waitErr)
			p.mu.Unlock()
			return waitErr
		}
	}

	p.fail(fmt.Errorf("%w after %d attempts: %v", ErrLoadExhausted, maxAttempts, lastErr))
	return lastErr
}

// fail transitions to Unavailable and records the failure.
func (p *Provider) fail(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.setState(StateUnavailable)
	p.mu.Unlock()

	p.logger.Error("abstractive engine unavailable", slog.Any("error", err))
}

// isConfigError reports whether a load failure is a configuration
// problem rather than a transient one.
func isConfigError(err error) bool {
	return errors.Is(err, engine.ErrInvalidLocalModel) ||
		errors.Is(err, engine.ErrNotLoopback) ||
		errors.Is(err, engine.ErrMissingAPIKey)
}

// GetOrLoad returns the cached engine, or nil when none is available.
//
// With forceReload false it never blocks unless a local model is
// configured: Ready returns the cache, Unavailable returns nil, and an
// Unloaded provider returns nil without attempting a load. With
// forceReload true (or in local mode on first use) a load cycle runs
// with the given attempt budget.
func (p *Provider) GetOrLoad(ctx context.Context, forceReload bool, maxAttempts int) engine.Engine {
	if !forceReload {
		p.mu.Lock()
		switch p.state {
		case StateReady:
			eng := p.engine
			p.mu.Unlock()
			return eng
		case StateUnavailable:
			p.mu.Unlock()
			return nil
		}
		local := p.localMode
		p.mu.Unlock()

		if !local {
			return nil
		}
	}

	_ = p.Load(ctx, maxAttempts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateReady {
		return p.engine
	}
	return nil
}

// SummarizeChunk delegates one chunk to the engine. Any error is a
// signal to fall back extractively for that chunk, never fatal.
func (p *Provider) SummarizeChunk(ctx context.Context, eng engine.Engine, text string, minLength, maxLength int) (string, error) {
	if eng == nil {
		return "", ErrNoEngine
	}
	return eng.Summarize(ctx, text, minLength, maxLength)
}

// Close releases the cached engine, if any.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine == nil {
		return nil
	}
	err := p.engine.Close()
	p.engine = nil
	p.setState(StateUnloaded)
	return err
}
