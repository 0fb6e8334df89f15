// Package tracing provides OpenTelemetry tracing for the summarization
// subsystem.
//
// The package only emits through the OpenTelemetry API; exporter and
// provider setup belong to the host process. Without a configured SDK the
// spans are no-ops, so instrumented code pays nothing in the default case.
//
// Instrumented operations:
//   - summarize: one span per document, annotated with the selected tier
//   - provider.load: engine bootstrap attempts
//   - engine.summarize_chunk: individual abstractive calls
package tracing
