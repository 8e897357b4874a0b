// Package observability wires OpenTelemetry tracing and metrics.
//
// Instrumentation always goes through the global otel providers, so code can
// create spans and instruments unconditionally. When the Component is
// enabled it installs OTLP/HTTP exporters; otherwise the no-op providers
// absorb everything.
//
//	obs := observability.New(cfg.Observability, observability.Identity{Name: "analyzer"}, log)
//	app.RegisterComponent(obs)
//
//	completer := llm.NewCompleter(p, 0.7,
//		observability.WithTracing[workflow.Prompt, string](),
//		observability.WithMetrics[workflow.Prompt, string](obs.Metrics()),
//	)
package observability
