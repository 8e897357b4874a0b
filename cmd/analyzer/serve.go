package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/bootstrap"
	"github.com/kbukum/startup-analyzer/component"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/observability"
	"github.com/kbukum/startup-analyzer/server"
	"github.com/kbukum/startup-analyzer/server/middleware"
	"github.com/kbukum/startup-analyzer/session"
	"github.com/kbukum/startup-analyzer/version"
	"github.com/kbukum/startup-analyzer/web"
	"github.com/kbukum/startup-analyzer/workflow"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")
	return cmd
}

// serve runs the web app until ctx is canceled.
func serve(ctx context.Context, cfg *AppConfig) error {
	app, _, err := newServeApp(cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// newServeApp wires the session store, the web handler and the HTTP server
// into one bootstrap app. Routes are mounted in the configure phase.
func newServeApp(cfg *AppConfig, opts ...bootstrap.Option) (*bootstrap.App[*AppConfig], *server.Server, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	sessions, err := session.NewStore(cfg.Session, app.Logger)
	if err != nil {
		return nil, nil, err
	}
	tel, err := newTelemetry(cfg, app.Logger)
	if err != nil {
		return nil, nil, err
	}
	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.Use(middleware.Telemetry(tel.Metrics()))

	handler, err := web.NewHandler(newService(cfg, app.Logger, tel), sessions, app.Logger, version.Get().String())
	if err != nil {
		return nil, nil, err
	}
	for _, c := range []component.Component{tel, sessions, server.NewComponent(srv)} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, nil, err
		}
	}

	app.OnStart(func(context.Context) error {
		app.Logger.Info("Completion backend", logger.Fields(
			"dialect", cfg.LLM.Dialect,
			"model", cfg.LLM.Model,
			"base_url", cfg.LLM.BaseURL,
		))
		return nil
	})
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		handler.Register(srv.GinEngine(), cfg.Server.RateLimit)
		srv.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll, map[string]string{
			"version": version.Get().Version,
			"dialect": cfg.LLM.Dialect,
			"model":   cfg.LLM.Model,
		}, sessions.Len)
		return nil
	})
	app.OnReady(func(context.Context) error {
		app.Logger.Info("Analyzer ready", logger.Fields("url", "http://"+srv.Addr()))
		return nil
	})
	return app, srv, nil
}

// newTelemetry builds the telemetry component for the configured service.
func newTelemetry(cfg *AppConfig, log *logger.Logger) (*observability.Component, error) {
	return observability.New(cfg.Observability, observability.Identity{
		Name:        cfg.Name,
		Version:     version.Get().Version,
		Environment: cfg.Environment,
	}, log)
}

// newService builds the analysis service from configuration. Completion
// calls and pipeline stages report to tel.
func newService(cfg *AppConfig, log *logger.Logger, tel *observability.Component, extra ...analysis.Option) *analysis.Service {
	opts := []analysis.Option{
		analysis.WithVerbose(cfg.Analysis.Verbose),
		analysis.WithObserver(observability.StageObserver(tel.Metrics())),
	}
	if cfg.Analysis.Retry.Enabled() {
		opts = append(opts, analysis.WithRetry(cfg.Analysis.Retry))
	}
	opts = append(opts, extra...)
	completers := analysis.LLMCompleters(cfg.LLM, log,
		observability.WithTracing[workflow.Prompt, string](),
		observability.WithMetrics[workflow.Prompt, string](tel.Metrics()),
	)
	return analysis.NewService(completers, log, opts...)
}
