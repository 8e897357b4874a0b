package llm

import (
	"context"

	"github.com/kbukum/startup-analyzer/provider"
	"github.com/kbukum/startup-analyzer/workflow"
)

// Completer bridges a completion provider to workflow.Completer.
type Completer struct {
	rr provider.RequestResponse[workflow.Prompt, string]
}

var _ workflow.Completer = (*Completer)(nil)

// NewCompleter wraps p so that every call uses the given temperature.
// Middlewares are applied to the domain-level provider, outermost first.
func NewCompleter(
	p provider.RequestResponse[CompletionRequest, CompletionResponse],
	temperature float64,
	middlewares ...provider.Middleware[workflow.Prompt, string],
) *Completer {
	adapted := provider.Adapt(p, p.Name(),
		func(_ context.Context, in workflow.Prompt) (CompletionRequest, error) {
			return CompletionRequest{
				SystemPrompt: in.System,
				Messages:     []Message{{Role: RoleUser, Content: in.User}},
				Temperature:  temperature,
			}, nil
		},
		func(out CompletionResponse) (string, error) {
			return out.Content, nil
		},
	)
	return &Completer{rr: provider.Chain(middlewares...)(adapted)}
}

// Name returns the underlying provider name.
func (c *Completer) Name() string { return c.rr.Name() }

// Complete sends the prompt and returns the reply text.
func (c *Completer) Complete(ctx context.Context, p workflow.Prompt) (string, error) {
	return c.rr.Execute(ctx, p)
}
