package analysis

import (
	"context"
	"io"
	"time"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/httpclient"
	"github.com/kbukum/startup-analyzer/llm"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/provider"
	"github.com/kbukum/startup-analyzer/resilience"
	"github.com/kbukum/startup-analyzer/security"
	"github.com/kbukum/startup-analyzer/sheet"
	"github.com/kbukum/startup-analyzer/workflow"
)

// Input is one analysis submission.
type Input struct {
	Upload     io.Reader
	Credential security.Credential
	Query      Query
}

// CompleterFactory builds the completion client for one submission's credential.
type CompleterFactory func(cred security.Credential) (workflow.Completer, error)

// LLMCompleters returns a CompleterFactory that creates an llm provider from
// base with the submitted credential and a fixed temperature of 0.3. mws
// wrap each completion inside the logging middleware.
func LLMCompleters(base llm.Config, log *logger.Logger, mws ...provider.Middleware[workflow.Prompt, string]) CompleterFactory {
	return func(cred security.Credential) (workflow.Completer, error) {
		cfg := base.WithCredential(cred)
		cfg.Temperature = Temperature
		p, err := llm.NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		chain := append([]provider.Middleware[workflow.Prompt, string]{provider.WithLogging[workflow.Prompt, string](log)}, mws...)
		return llm.NewCompleter(p, Temperature, chain...), nil
	}
}

// Option configures a Service.
type Option func(*Service)

// WithRetry retries failed completion calls on retryable transport errors.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *Service) {
		if cfg.RetryIf == nil {
			cfg.RetryIf = httpclient.IsRetryable
		}
		s.runnerOpts = append(s.runnerOpts, workflow.WithRetry(cfg))
	}
}

// WithObserver forwards stage progress events.
func WithObserver(o workflow.Observer) Option {
	return func(s *Service) { s.runnerOpts = append(s.runnerOpts, workflow.WithObserver(o)) }
}

// WithVerbose logs prompt sizes for every stage.
func WithVerbose(v bool) Option {
	return func(s *Service) { s.verbose = v }
}

// Service runs analyses.
type Service struct {
	completers CompleterFactory
	log        *logger.Logger
	runnerOpts []workflow.Option
	verbose    bool
}

// NewService creates a Service.
func NewService(completers CompleterFactory, log *logger.Logger, opts ...Option) *Service {
	s := &Service{completers: completers, log: log.WithComponent("analysis")}
	for _, opt := range opts {
		opt(s)
	}
	s.runnerOpts = append([]workflow.Option{workflow.WithLogger(log)}, s.runnerOpts...)
	return s
}

// Analyze loads the upload, runs the three stages in order and returns the
// report. Missing inputs fail with errors.MissingInput before anything is
// parsed or sent; a failed stage fails with errors.StageFailure.
func (s *Service) Analyze(ctx context.Context, in Input) (*Report, error) {
	var missing []string
	if in.Upload == nil {
		missing = append(missing, "dataset")
	}
	if in.Credential.IsZero() {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return nil, errors.MissingInput(missing...)
	}
	if appErr := in.Query.Validate(); appErr != nil {
		return nil, appErr
	}

	log := s.log.WithContext(ctx).WithFields(logger.Fields("query_type", string(in.Query.Type)))
	start := time.Now()

	table, err := sheet.Load(in.Upload)
	if err != nil {
		return nil, err
	}
	data, err := table.JSON()
	if err != nil {
		return nil, errors.Internal(err)
	}
	log.Debug("dataset loaded", logger.Fields(
		"sheet", table.Sheet,
		"records", table.Len(),
		"columns", len(table.Columns),
		"payload_chars", len(data),
	))

	completer, err := s.completers(in.Credential)
	if err != nil {
		return nil, errors.Internal(err)
	}
	stages, err := Stages(completer, s.verbose)
	if err != nil {
		return nil, errors.Internal(err)
	}
	tasks, err := BuildTasks(data, in.Query, stages)
	if err != nil {
		return nil, errors.Internal(err)
	}

	results, err := workflow.NewRunner(s.runnerOpts...).Run(ctx, tasks)
	if err != nil {
		return nil, err
	}

	fields := logger.DurationFields("analyze", time.Since(start))
	fields["records"] = table.Len()
	log.Info("analysis complete", fields)

	return NewReport(in.Query, results), nil
}
