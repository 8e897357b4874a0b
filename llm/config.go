package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/startup-analyzer/httpclient"
	"github.com/kbukum/startup-analyzer/resilience"
	"github.com/kbukum/startup-analyzer/security"
)

const defaultTimeout = 120 * time.Second

// Config holds configuration for creating an LLM adapter.
// It is provider-agnostic; the Dialect field selects the provider mapping.
type Config struct {
	// Name identifies this adapter instance in logs. Defaults to "<dialect>-llm".
	Name string `yaml:"name" mapstructure:"name"`

	// Dialect selects the provider mapping ("openai", "ollama", "anthropic").
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the default model identifier.
	Model string `yaml:"model" mapstructure:"model"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens is the default maximum tokens for responses. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout for HTTP requests. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures TLS for the connection.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures retry behavior for failed requests.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// RateLimit paces outbound calls.
	RateLimit *resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// Credential is supplied per session and never read from config files.
	Credential security.Credential `yaml:"-" mapstructure:"-"`
}

// WithCredential returns a copy of the config carrying key.
func (c Config) WithCredential(key security.Credential) Config {
	c.Credential = key
	return c
}

// ApplyDefaults sets default values for unset config fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
}

// Validate checks the static part of the configuration.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("llm: dialect is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm: temperature must be between 0 and 2, got %v", c.Temperature)
	}
	return c.TLS.Validate()
}

// httpConfig maps the LLM config onto the transport config.
func (c *Config) httpConfig(auth *httpclient.AuthConfig) httpclient.Config {
	cfg := httpclient.Config{
		Name:        c.Name,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		Auth:        auth,
		TLS:         c.TLS,
		Headers:     c.Headers,
		RateLimiter: c.RateLimit,
	}
	if c.Retry != nil {
		retry := *c.Retry
		cfg.Retry = &retry
	}
	return cfg
}
