package summary

import "errors"

// Internal failure kinds. None of these ever reach a Summarize caller:
// each one maps to a deterministic extractive fallback. They exist so
// logs and state inspection can tell the failure modes apart.
var (
	// ErrLoadExhausted indicates every bootstrap attempt failed.
	ErrLoadExhausted = errors.New("engine load attempts exhausted")

	// ErrLoadAborted indicates the caller canceled an in-flight load.
	// Provider state is left as it was before the load began.
	ErrLoadAborted = errors.New("engine load aborted")

	// ErrNoEngine indicates a chunk call was made without a live engine.
	ErrNoEngine = errors.New("no engine available")
)
