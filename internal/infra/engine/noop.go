package engine

import (
	"context"
	"strings"
)

// NoOp is an engine that echoes the input truncated to the requested
// word bound. Useful for development and testing when no real model or
// API credentials are available.
type NoOp struct{}

// NewNoOp creates a new NoOp engine.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the original text truncated to maxLength words.
func (n *NoOp) Summarize(_ context.Context, input string, _, maxLength int) (string, error) {
	words := strings.Fields(input)
	if len(words) <= maxLength {
		return strings.Join(words, " "), nil
	}
	return strings.Join(words[:maxLength], " ") + "...", nil
}

// Ping implements Engine.Ping.
func (n *NoOp) Ping(_ context.Context) error {
	return nil
}

// Name implements Engine.Name.
func (n *NoOp) Name() string {
	return "noop"
}

// Close implements Engine.Close.
func (n *NoOp) Close() error {
	return nil
}
