package summary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"docsummary/internal/extract"
)

func newTestOrchestrator(t *testing.T, p *Provider, forceExtractive bool) *Orchestrator {
	t.Helper()
	return NewOrchestrator(OrchestratorConfig{
		Provider:        p,
		Extractive:      extract.NewSummarizer(),
		ForceExtractive: forceExtractive,
		Logger:          discardLogger(),
	})
}

// readyProvider returns a provider already loaded with the given engine.
func readyProvider(t *testing.T, fe *fakeEngine) (*Provider, *fakeFactory) {
	t.Helper()
	fac := &fakeFactory{engine: fe}
	p, _ := newTestProvider(t, fac, false, 3)
	if err := p.Load(context.Background(), 0); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return p, fac
}

// sampleDocument builds a document of roughly n characters with varied,
// scorable sentences.
func sampleDocument(n int) string {
	base := []string{
		"Distributed systems trade consistency against availability under network partitions.",
		"Caching layers absorb read traffic before it reaches the primary database.",
		"Observability pipelines collect metrics and traces from every service instance.",
		"Storage engines compact immutable segments to reclaim disk space over time.",
		"Load balancers spread incoming requests across healthy backend replicas.",
		"Message queues decouple producers from consumers during traffic spikes.",
		"Schema migrations roll forward in small reversible steps to limit risk.",
		"Rate limiting protects shared services from a single noisy tenant.",
	}
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(base[i%len(base)])
	}
	return b.String()
}

func TestSummarize_EmptyInput(t *testing.T) {
	p, _ := readyProvider(t, &fakeEngine{})
	o := newTestOrchestrator(t, p, false)

	inputs := []string{"", "   ", "\n\t  \n"}
	optionSets := []Options{
		{},
		{Abstractive: true},
		{Abstractive: true, ForceLoadNow: true},
	}

	for _, input := range inputs {
		for _, opts := range optionSets {
			if got := o.Summarize(context.Background(), input, opts); got != "" {
				t.Errorf("Summarize(%q, %+v) = %q, want empty", input, opts, got)
			}
		}
	}
}

func TestSummarize_ForceExtractiveNeverCallsEngine(t *testing.T) {
	fe := &fakeEngine{}
	p, fac := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, true)

	input := sampleDocument(1500)
	want := extract.NewSummarizer().Summarize(input, 5)

	optionSets := []Options{
		{Abstractive: false, ForceLoadNow: false},
		{Abstractive: true, ForceLoadNow: false},
		{Abstractive: false, ForceLoadNow: true},
		{Abstractive: true, ForceLoadNow: true},
	}

	loadsBefore := fac.callCount()
	for _, opts := range optionSets {
		if got := o.Summarize(context.Background(), input, opts); got != want {
			t.Errorf("Summarize(%+v) = %q, want extractive output %q", opts, got, want)
		}
	}

	if fe.callCount() != 0 {
		t.Errorf("engine was called %d times under force-extractive", fe.callCount())
	}
	if fac.callCount() != loadsBefore {
		t.Errorf("force-extractive triggered %d load attempts", fac.callCount()-loadsBefore)
	}
}

func TestSummarize_AbstractiveDisabled(t *testing.T) {
	fe := &fakeEngine{}
	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	input := sampleDocument(3000)
	want := extract.NewSummarizer().Summarize(input, 5)

	got := o.Summarize(context.Background(), input, Options{MaxChunkChars: 1200, Abstractive: false})
	if got != want {
		t.Errorf("expected extractive output with 5 sentences, got %q", got)
	}
	if fe.callCount() != 0 {
		t.Errorf("engine was called %d times with abstractive disabled", fe.callCount())
	}
}

func TestSummarize_UnavailableProviderFallsBack(t *testing.T) {
	fac := &fakeFactory{err: errors.New("down")}
	p, _ := newTestProvider(t, fac, false, 2)
	_ = p.Load(context.Background(), 0)
	if p.State() != StateUnavailable {
		t.Fatalf("expected Unavailable, got %v", p.State())
	}

	o := newTestOrchestrator(t, p, false)
	input := sampleDocument(1000)
	want := extract.NewSummarizer().Summarize(input, 6)

	loadsBefore := fac.callCount()
	got := o.Summarize(context.Background(), input, Options{Abstractive: true})

	if got != want {
		t.Errorf("expected extractive fallback with 6 sentences, got %q", got)
	}
	if fac.callCount() != loadsBefore {
		t.Errorf("unavailable provider triggered %d load attempts", fac.callCount()-loadsBefore)
	}
}

func TestSummarize_AbstractivePreservesChunkOrder(t *testing.T) {
	fe := &fakeEngine{summarizeFn: func(text string, _, _ int) (string, error) {
		return strings.ToUpper(strings.Fields(text)[0]), nil
	}}
	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	// Three sentences, one chunk each at this budget.
	input := "alpha one. beta two. gamma three."
	got := o.Summarize(context.Background(), input, Options{
		MaxChunkChars: 16,
		MinLength:     10,
		MaxLength:     50,
		Abstractive:   true,
	})

	if got != "ALPHA BETA GAMMA" {
		t.Errorf("expected chunk summaries joined in document order, got %q", got)
	}
	if fe.callCount() != 3 {
		t.Errorf("expected 3 chunk calls, got %d", fe.callCount())
	}
}

func TestSummarize_ChunkFailureFallsBackPerChunk(t *testing.T) {
	fe := &fakeEngine{summarizeFn: func(text string, _, _ int) (string, error) {
		if strings.Contains(text, "beta") {
			return "", errors.New("engine hiccup")
		}
		return strings.ToUpper(strings.Fields(text)[0]), nil
	}}
	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	// Budget 30 packs the first two sentences into one chunk.
	input := "alpha one. beta two. gamma three."
	got := o.Summarize(context.Background(), input, Options{
		MaxChunkChars: 30,
		MinLength:     10,
		MaxLength:     50,
		Abstractive:   true,
	})

	// The failed chunk is recovered verbatim (two sentences fit the
	// two-sentence fallback target); the healthy chunk stays abstractive.
	want := "alpha one. beta two. GAMMA"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSummarize_CondensationPass(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("lorem ipsum ", 10))

	var mu sync.Mutex
	var minLengths []int

	fe := &fakeEngine{}
	fe.summarizeFn = func(text string, minLength, _ int) (string, error) {
		mu.Lock()
		minLengths = append(minLengths, minLength)
		mu.Unlock()

		if len(text) > 16 {
			// Condensation input is the oversized combined text.
			return "condensed result", nil
		}
		return long, nil
	}

	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	input := "alpha one. beta two. gamma three."
	got := o.Summarize(context.Background(), input, Options{
		MaxChunkChars: 16,
		MinLength:     40,
		MaxLength:     100,
		Abstractive:   true,
	})

	if got != "condensed result" {
		t.Errorf("expected condensed output, got %q", got)
	}
	if fe.callCount() != 4 {
		t.Errorf("expected 3 chunk calls plus 1 condensation call, got %d", fe.callCount())
	}

	mu.Lock()
	last := minLengths[len(minLengths)-1]
	mu.Unlock()
	if last != 20 {
		t.Errorf("condensation must halve the minimum length: got %d, want 20", last)
	}
}

func TestSummarize_CondensationMinLengthFloor(t *testing.T) {
	var mu sync.Mutex
	var minLengths []int

	fe := &fakeEngine{}
	fe.summarizeFn = func(text string, minLength, _ int) (string, error) {
		mu.Lock()
		minLengths = append(minLengths, minLength)
		mu.Unlock()

		if len(text) > 16 {
			return "tiny", nil
		}
		return strings.TrimSpace(strings.Repeat("word ", 12)), nil
	}

	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	_ = o.Summarize(context.Background(), "alpha one. beta two. gamma three.", Options{
		MaxChunkChars: 16,
		MinLength:     12,
		MaxLength:     100,
		Abstractive:   true,
	})

	mu.Lock()
	last := minLengths[len(minLengths)-1]
	mu.Unlock()
	if last != 10 {
		t.Errorf("condensation minimum length floor is 10: got %d", last)
	}
}

func TestSummarize_CondensationFailureKeepsCombined(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("lorem ipsum ", 5))

	fe := &fakeEngine{summarizeFn: func(text string, _, _ int) (string, error) {
		if len(text) > 16 {
			return "", errors.New("condensation failed")
		}
		return long, nil
	}}
	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	input := "alpha one. beta two. gamma three."
	got := o.Summarize(context.Background(), input, Options{
		MaxChunkChars: 16,
		MinLength:     10,
		MaxLength:     50,
		Abstractive:   true,
	})

	want := long + " " + long + " " + long
	if got != want {
		t.Errorf("expected uncondensed combined text, got %q", got)
	}
}

func TestSummarize_AllChunksEmptyFallsBack(t *testing.T) {
	fe := &fakeEngine{summarizeFn: func(_ string, _, _ int) (string, error) {
		return "   ", nil
	}}
	p, _ := readyProvider(t, fe)
	o := newTestOrchestrator(t, p, false)

	input := sampleDocument(1000)
	want := extract.NewSummarizer().Summarize(input, 6)

	got := o.Summarize(context.Background(), input, Options{Abstractive: true})
	if got != want {
		t.Errorf("expected extractive fallback with 6 sentences, got %q", got)
	}
}

func TestSummarize_ForceLoadNow(t *testing.T) {
	t.Run("successful load enables abstractive tier", func(t *testing.T) {
		fe := &fakeEngine{summarizeFn: func(_ string, _, _ int) (string, error) {
			return "abstractive output", nil
		}}
		fac := &fakeFactory{engine: fe}
		p, _ := newTestProvider(t, fac, false, 3)
		o := newTestOrchestrator(t, p, false)

		got := o.Summarize(context.Background(), "alpha one. beta two.", Options{
			Abstractive:  true,
			ForceLoadNow: true,
		})

		if got != "abstractive output" {
			t.Errorf("expected abstractive output, got %q", got)
		}
		if fac.callCount() != 1 {
			t.Errorf("expected exactly 1 forced load attempt, got %d", fac.callCount())
		}
	})

	t.Run("failed load falls back with a single attempt", func(t *testing.T) {
		fac := &fakeFactory{err: errors.New("down")}
		p, _ := newTestProvider(t, fac, false, 5)
		o := newTestOrchestrator(t, p, false)

		input := sampleDocument(800)
		want := extract.NewSummarizer().Summarize(input, 6)

		got := o.Summarize(context.Background(), input, Options{
			Abstractive:  true,
			ForceLoadNow: true,
		})

		if got != want {
			t.Errorf("expected extractive fallback, got %q", got)
		}
		if fac.callCount() != 1 {
			t.Errorf("forced load is budgeted one attempt, got %d", fac.callCount())
		}
	})
}

func TestSummarize_LocalModeLoadsOnFirstRequest(t *testing.T) {
	fe := &fakeEngine{summarizeFn: func(_ string, _, _ int) (string, error) {
		return "local output", nil
	}}
	fac := &fakeFactory{engine: fe}
	p, _ := newTestProvider(t, fac, true, 3)
	o := newTestOrchestrator(t, p, false)

	got := o.Summarize(context.Background(), "alpha one. beta two.", Options{Abstractive: true})
	if got != "local output" {
		t.Errorf("expected abstractive output via eager local load, got %q", got)
	}
	if fac.callCount() != 1 {
		t.Errorf("expected 1 eager load, got %d", fac.callCount())
	}
}

func TestNormalize_Defaults(t *testing.T) {
	p, _ := newTestProvider(t, &fakeFactory{}, false, 1)
	o := newTestOrchestrator(t, p, false)

	opts := o.normalize(Options{})
	if opts.MaxChunkChars != 1200 {
		t.Errorf("default MaxChunkChars = %d, want 1200", opts.MaxChunkChars)
	}
	if opts.MinLength != 50 {
		t.Errorf("default MinLength = %d, want 50", opts.MinLength)
	}
	if opts.MaxLength < opts.MinLength {
		t.Errorf("MaxLength %d must be >= MinLength %d", opts.MaxLength, opts.MinLength)
	}
}
