// Package anthropic provides an llm.Provider backed by the Anthropic SDK.
//
// Importing the package registers the "anthropic" dialect with
// llm.RegisterFactory, so llm.NewProvider(llm.Config{Dialect: "anthropic"})
// returns a Client.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kbukum/startup-analyzer/httpclient"
	"github.com/kbukum/startup-analyzer/llm"
)

const (
	// DialectName is the registered name.
	DialectName = "anthropic"

	// DefaultMaxTokens is used when the config sets none; the Messages API
	// requires an explicit limit.
	DefaultMaxTokens = 4096
)

func init() {
	llm.RegisterFactory(DialectName, func(cfg llm.Config) (llm.Provider, error) {
		return New(cfg)
	})
}

// Client implements llm.Provider over the Messages API.
type Client struct {
	name      string
	client    anthropic.Client
	model     anthropic.Model
	temp      float64
	maxTokens int64
}

var _ llm.Provider = (*Client)(nil)

// New creates a Client. The credential is passed to the SDK explicitly; the
// SDK's environment lookup is never relied upon.
func New(cfg llm.Config) (*Client, error) {
	if cfg.Credential.IsZero() {
		return nil, fmt.Errorf("anthropic: credential is required")
	}
	cfg.ApplyDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Credential.Reveal()),
		option.WithHTTPClient(&http.Client{Transport: transport, Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Client{
		name:      cfg.Name,
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		temp:      cfg.Temperature,
		maxTokens: maxTokens,
	}, nil
}

func (c *Client) Name() string { return c.name }

// IsAvailable reports true; the Messages API has no cheap health probe.
func (c *Client) IsAvailable(context.Context) bool { return true }

// Execute sends the request as a single Messages call.
func (c *Client) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	if req.Model != "" {
		params.Model = anthropic.Model(req.Model)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}
	temp := c.temp
	if req.Temperature != 0 {
		temp = req.Temperature
	}
	params.Temperature = anthropic.Opt(temp)

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: req.SystemPrompt}}
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case llm.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Type: "text", Text: m.Content})
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("anthropic: execute: %w", classify(err))
	}

	out := llm.CompletionResponse{
		Model:        string(msg.Model),
		FinishReason: string(msg.StopReason),
		Usage: llm.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.Content += block.Text
		}
	}
	return out, nil
}

// classify maps SDK API errors onto httpclient's classification so callers
// can use httpclient.IsAuth, IsRateLimit and friends for every backend.
func classify(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return httpclient.NewTimeoutError(err)
		}
		return httpclient.NewConnectionError(err)
	}
	classified := httpclient.ClassifyStatusCode(apiErr.StatusCode, nil)
	if classified == nil {
		return err
	}
	classified.Err = err
	return classified
}
