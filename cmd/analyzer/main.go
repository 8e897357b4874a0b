// Command analyzer serves the startup ecosystem analyzer and runs it headless.
package main

import (
	"os"

	"github.com/spf13/cobra"

	// Completion dialects.
	_ "github.com/kbukum/startup-analyzer/llm/anthropic"
	_ "github.com/kbukum/startup-analyzer/llm/ollama"
	_ "github.com/kbukum/startup-analyzer/llm/openai"
)

type exitCode int

const (
	exitCodeSuccess exitCode = 0
	exitCodeError   exitCode = 1
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
}

// load reads the configuration and applies the persistent flags.
func (o *rootOptions) load() (*AppConfig, error) {
	cfg, err := loadConfig(o.configFile, o.envFile)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
		cfg.Analysis.Verbose = true
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "German AI startup ecosystem analyzer.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to config.yml (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newInspectCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func run(args []string) exitCode {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func main() {
	os.Exit(int(run(os.Args[1:])))
}
