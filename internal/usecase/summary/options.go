package summary

// Options control a single Summarize call.
type Options struct {
	// MaxChunkChars is the character budget per abstractive chunk and
	// the threshold that triggers the condensation pass. Zero means the
	// orchestrator default.
	MaxChunkChars int

	// MinLength and MaxLength bound the abstractive summary length in
	// words. Zero means the orchestrator default.
	MinLength int
	MaxLength int

	// Abstractive requests the abstractive tier. The request is honored
	// only when an engine is available; it never blocks availability.
	Abstractive bool

	// ForceLoadNow makes this request willing to pay for one engine
	// load attempt when no engine is cached. Only this request blocks
	// on the load.
	ForceLoadNow bool
}

// Sentence targets per tier. A fallback from a requested abstractive
// tier gets one extra sentence over the plain extractive target.
const (
	extractiveTargetSentences   = 5
	fallbackTargetSentences     = 6
	chunkFallbackSentences      = 2
	condensationMinLengthFloor  = 10
	maxConcurrentChunkSummaries = 4
)
