// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Request ID correlation across summarization stages
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "docsummary/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func summarize(ctx context.Context, requestID string) {
//	    logger := logging.WithRequestID(slog.Default(), requestID)
//	    logger.Info("processing document")
//	}
package logging
