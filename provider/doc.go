// Package provider defines the generic request/response abstraction that
// every text-completion backend implements, plus composable middleware.
//
// A backend (OpenAI-compatible HTTP, Ollama, the Anthropic SDK) exposes
// RequestResponse[llm.CompletionRequest, llm.CompletionResponse]. Adapt
// bridges it to the pipeline's prompt type and Chain layers cross-cutting
// behaviour on top:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	)(backend)
package provider
