package main

import (
	"fmt"
	"time"

	"github.com/kbukum/startup-analyzer/config"
	"github.com/kbukum/startup-analyzer/llm"
	"github.com/kbukum/startup-analyzer/observability"
	"github.com/kbukum/startup-analyzer/resilience"
	"github.com/kbukum/startup-analyzer/server"
	"github.com/kbukum/startup-analyzer/session"
)

const serviceName = "analyzer"

// Defaults point at Groq's OpenAI-compatible endpoint.
const (
	defaultDialect = "openai"
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// AnalysisConfig tunes the pipeline run.
type AnalysisConfig struct {
	// Verbose logs prompt sizes for every stage.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	// Retry retries failed completion calls. max_attempts <= 1 disables it.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// AppConfig is the analyzer's configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server   server.Config  `yaml:"server" mapstructure:"server"`
	LLM      llm.Config     `yaml:"llm" mapstructure:"llm"`
	Session  session.Config `yaml:"session" mapstructure:"session"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "startup-analyzer"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Session.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.LLM.Dialect == "" {
		c.LLM.Dialect = defaultDialect
	}
	// Groq defaults apply to the openai dialect only; other backends name
	// their own model.
	if c.LLM.Dialect == defaultDialect {
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultBaseURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultModel
		}
	}
	c.LLM.ApplyDefaults()

	if c.Analysis.Retry.Enabled() {
		if c.Analysis.Retry.InitialBackoff <= 0 {
			c.Analysis.Retry.InitialBackoff = time.Second
		}
		if c.Analysis.Retry.MaxBackoff <= 0 {
			c.Analysis.Retry.MaxBackoff = 30 * time.Second
		}
		if c.Analysis.Retry.BackoffFactor <= 0 {
			c.Analysis.Retry.BackoffFactor = 2
		}
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.Analysis.Retry.MaxAttempts < 0 {
		return fmt.Errorf("analysis.retry.max_attempts must be non-negative (got: %d)", c.Analysis.Retry.MaxAttempts)
	}
	return nil
}

// loadConfig reads config.yml, .env and the environment into an AppConfig.
func loadConfig(path, envFile string) (*AppConfig, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
