// Package llm provides the config-driven chat-completion client used by the
// analysis pipeline.
//
// The client works with any HTTP provider through the Dialect pattern, much
// like database/sql works with drivers. Dialect packages register
// themselves on import:
//
//	import (
//	    "github.com/kbukum/startup-analyzer/llm"
//	    _ "github.com/kbukum/startup-analyzer/llm/openai" // registers "openai"
//	)
//
//	adapter, err := llm.New(llm.Config{
//	    Dialect: "openai",
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Model:   "llama-3.3-70b-versatile",
//	}.WithCredential(key))
//
// Adapter implements provider.RequestResponse[CompletionRequest,
// CompletionResponse]; NewCompleter bridges any such provider to the
// workflow.Completer used by pipeline stages.
package llm
