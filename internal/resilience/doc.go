// Package resilience provides reliability and fault tolerance patterns
// for calls to abstractive summarization engines.
//
// The package supports:
//   - Circuit breakers for engine APIs (Claude, OpenAI, local inference)
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.OpenAIAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callEngine()
//	})
//
//	err := retry.WithBackoff(ctx, retry.EngineCallConfig(), func() error {
//	    return performOperation()
//	})
package resilience
