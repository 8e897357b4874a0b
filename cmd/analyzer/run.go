package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/startup-analyzer/analysis"
	"github.com/kbukum/startup-analyzer/bootstrap"
	"github.com/kbukum/startup-analyzer/security"
	"github.com/kbukum/startup-analyzer/util"
	"github.com/kbukum/startup-analyzer/workflow"
)

// apiKeyEnv is read, never written.
const apiKeyEnv = "ANALYZER_LLM_API_KEY"

type runOptions struct {
	file     string
	query    string
	question string
	apiKey   string
	asJSON   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one analysis headless and print the three sections",
		Example: `  analyzer run --file startups.xlsx --query "Funding Patterns"
  analyzer run --file startups.xlsx --query "Custom Query" --question "Which cities lead in robotics?"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			// Logs go to stderr so stdout carries only the report.
			cfg.Logging.Output = "stderr"

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runAnalysis(ctx, cfg, o, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Excel workbook with startup records")
	cmd.Flags().StringVarP(&o.query, "query", "q", string(analysis.MarketOverview), "analysis type: "+queryTypeList())
	cmd.Flags().StringVar(&o.question, "question", "", `custom question, used with --query "Custom Query"`)
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "LLM API key (default: $"+apiKeyEnv+")")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runAnalysis(ctx context.Context, cfg *AppConfig, o *runOptions, stdout, stderr io.Writer) error {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithoutSummary())
	if err != nil {
		return err
	}
	tel, err := newTelemetry(cfg, app.Logger)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(tel); err != nil {
		return err
	}
	svc := newService(cfg, app.Logger, tel, analysis.WithObserver(progress(stderr)))

	return app.RunTask(ctx, func(ctx context.Context) error {
		in := analysis.Input{
			Credential: resolveAPIKey(o.apiKey, os.Getenv(apiKeyEnv)),
			Query:      analysis.NewQuery(o.query, o.question),
		}
		if o.file != "" {
			f, err := os.Open(o.file)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer f.Close()
			in.Upload = f
		}

		report, err := svc.Analyze(ctx, in)
		if err != nil {
			if hint := analysis.FailureHint(err); hint != "" {
				return fmt.Errorf("%w\n%s", err, hint)
			}
			return err
		}
		if o.asJSON {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		return writeReport(stdout, report)
	})
}

// resolveAPIKey prefers the flag over the environment.
func resolveAPIKey(flag, env string) security.Credential {
	if strings.TrimSpace(flag) != "" {
		return security.NewCredential(flag)
	}
	return security.NewCredential(util.SanitizeEnvValue(env))
}

// writeReport prints the sections as markdown, in pipeline order.
func writeReport(w io.Writer, r *analysis.Report) error {
	if _, err := fmt.Fprintf(w, "# %s\n", r.Query.Focus()); err != nil {
		return err
	}
	for _, s := range r.Sections {
		if _, err := fmt.Fprintf(w, "\n## %s\n\n%s\n", s.Label, strings.TrimSpace(s.Raw)); err != nil {
			return err
		}
	}
	return nil
}

// progress prints one line per stage transition.
func progress(w io.Writer) workflow.Observer {
	return func(e workflow.Event) {
		switch e.Kind {
		case workflow.EventStageStarted:
			fmt.Fprintf(w, "[%d/%d] %s: running\n", e.Position, e.Total, e.Stage)
		case workflow.EventStageFinished:
			fmt.Fprintf(w, "[%d/%d] %s: done in %s\n", e.Position, e.Total, e.Stage, e.Duration.Round(time.Millisecond))
		case workflow.EventStageFailed:
			fmt.Fprintf(w, "[%d/%d] %s: failed\n", e.Position, e.Total, e.Stage)
		}
	}
}

func queryTypeList() string {
	types := analysis.QueryTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(names, ", ")
}
