// Package resilience provides the fault-tolerance helpers used around
// outbound LLM calls.
//
// This package includes:
//   - Retry: retries failed operations with exponential backoff
//   - RateLimiter: paces requests with a token bucket
//
// Both are configured from YAML through the llm section:
//
//	llm:
//	  retry: {max_attempts: 3, initial_backoff: 500ms}
//	  rate_limit: {rate: 0.5, burst: 1}
package resilience
