// Package openai implements the llm.Dialect for OpenAI-compatible chat
// completion endpoints (Groq, OpenRouter, OpenAI, vLLM).
//
// Importing the package registers the "openai" dialect.
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/startup-analyzer/httpclient"
	"github.com/kbukum/startup-analyzer/llm"
)

const (
	// DialectName is the registered name for this dialect.
	DialectName = "openai"

	// GroqBaseURL is Groq's OpenAI-compatible API root.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the default Groq model.
	DefaultModel = "llama-3.3-70b-versatile"
)

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types to the /chat/completions wire format.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/chat/completions" }
func (d *Dialect) HealthPath() string { return "/models" }

// Authorize sends the key as a bearer token.
func (d *Dialect) Authorize(key string) *httpclient.AuthConfig {
	if key == "" {
		return nil
	}
	return httpclient.BearerAuth(key)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type choice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

// BuildRequest maps the request to a chat completion body. The system prompt
// becomes the first message.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	msgs := req.ChatMessages()
	if len(msgs) == 0 {
		return nil, fmt.Errorf("openai: at least one message is required")
	}

	out := chatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, len(msgs)),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for i, m := range msgs {
		out.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return out, nil
}

// ParseResponse returns the first choice's message.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}

	out := &llm.CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: resp.Choices[0].FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}
