// Package cmd provides the CLI commands for csbench.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/logging"
	"github.com/searchforge/csbench/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the csbench CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csbench",
		Short: "Drive BM25+RM3 retrieval experiments over CodeSearchNet",
		Long: `csbench runs parameterized retrieval experiments against an external
IR framework: for each target language it assembles a full parameter set
(BM25+RM3 searcher hyperparameters plus language-scoped collection and
benchmark keys) and invokes the framework's train and/or evaluate phase.

Sweeps are strictly sequential: phases share one accelerator, so train
for a language completes before its evaluate starts, and languages never
overlap. Failures are itemized at the end instead of aborting the sweep.`,
		Version: version.Version,
		// Errors are rendered once, by Execute, in the structured format
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("csbench version {{.Version}}\n")

	// Debug logging flag
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.csbench/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging starts debug logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

// stopLogging stops debug logging.
func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command, rendering any error for the terminal.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errors.FormatForCLI(err))
	}
	return err
}
