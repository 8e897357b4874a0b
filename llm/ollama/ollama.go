// Package ollama implements the llm.Dialect for a local Ollama server, for
// running the analysis offline without a hosted credential.
//
// Importing the package registers the "ollama" dialect.
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/startup-analyzer/httpclient"
	"github.com/kbukum/startup-analyzer/llm"
)

const (
	// DialectName is the registered name for the Ollama dialect.
	DialectName = "ollama"

	// DefaultBaseURL is where a local Ollama listens.
	DefaultBaseURL = "http://localhost:11434"
)

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types to Ollama's /api/chat format.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/api/chat" }
func (d *Dialect) HealthPath() string { return "/api/tags" }

// Authorize returns nil: a local Ollama takes no credential.
func (d *Dialect) Authorize(string) *httpclient.AuthConfig { return nil }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// BuildRequest creates a non-streaming Ollama chat request.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("ollama: model is required")
	}
	msgs := req.ChatMessages()
	out := chatRequest{
		Model:    req.Model,
		Messages: make([]chatMessage, len(msgs)),
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	for i, m := range msgs {
		out.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return out, nil
}

// ParseResponse decodes a complete (non-streamed) chat response.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &llm.CompletionResponse{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
