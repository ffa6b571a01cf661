package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/searchforge/csbench/internal/config"
	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/history"
	"github.com/searchforge/csbench/internal/output"
	"github.com/searchforge/csbench/internal/params"
	"github.com/searchforge/csbench/internal/runner"
	"github.com/searchforge/csbench/internal/sweep"
)

// runOptions holds CLI flags for run.
type runOptions struct {
	train     bool
	eval      bool
	languages []string
	backend   string
	noHistory bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	var trainSet, evalSet bool

	cmd := &cobra.Command{
		Use:   "run [doTrain] [doEval]",
		Short: "Run the experiment sweep",
		Long: `Run the train/evaluate sweep over the configured languages.

The two phase toggles can be given as flags or as the two leading
positional booleans (legacy driver form). With both phases disabled the
sweep still emits every parameter set, as a dry run.

Examples:
  csbench run --eval
  csbench run --train --eval --lang ruby
  csbench run true false --lang java --lang go
  csbench run --lang python            # dry run if config disables both`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trainSet = cmd.Flags().Changed("train")
			evalSet = cmd.Flags().Changed("eval")
			return runSweep(cmd.Context(), cmd, args, opts, trainSet, evalSet)
		},
	}

	cmd.Flags().BoolVar(&opts.train, "train", false, "Run the train phase per language")
	cmd.Flags().BoolVar(&opts.eval, "eval", false, "Run the evaluate phase per language")
	cmd.Flags().StringSliceVarP(&opts.languages, "lang", "l", nil, "Language to sweep (repeatable; default from config)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Backend binary (default from config)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Skip recording outcomes to the history store")

	return cmd
}

func runSweep(ctx context.Context, cmd *cobra.Command, args []string, opts runOptions, trainSet, evalSet bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doTrain, doEval := cfg.Sweep.Train, cfg.Sweep.Eval
	if trainSet {
		doTrain = opts.train
	}
	if evalSet {
		doEval = opts.eval
	}
	// Legacy positional form wins over both
	if len(args) >= 1 {
		if doTrain, err = parsePhaseArg(args[0], "doTrain"); err != nil {
			return err
		}
	}
	if len(args) >= 2 {
		if doEval, err = parsePhaseArg(args[1], "doEval"); err != nil {
			return err
		}
	}
	phases := sweep.PhaseSetFrom(doTrain, doEval)

	axis, err := resolveAxis(cfg, opts.languages)
	if err != nil {
		return err
	}

	if opts.backend != "" {
		cfg.Backend.Binary = opts.backend
	}

	out := output.NewStyled(cmd.OutOrStdout(), output.StylesFor(os.Stdout))
	out.Statusf("🔎", "Sweeping %d language(s), phases: %s", len(axis), phases)

	var lock *runner.AcceleratorLock
	if cfg.Backend.LockDir != "" {
		lock = runner.NewAcceleratorLock(cfg.Backend.LockDir)
	}
	exec := runner.NewSubprocess(cfg.Backend.Binary, lock)
	exec.Task = cfg.Backend.Task

	dispatcher := sweep.New(exec,
		sweep.WithObserver(func(lang params.Language, set params.Set) {
			out.Statusf("▶️ ", "%s", lang)
			for _, key := range set.Keys() {
				v, _ := set.Get(key)
				out.KV(key, v)
			}
		}))

	report, err := dispatcher.Run(ctx, axis, phases, cfg.Searcher)
	if err != nil {
		return err
	}

	out.Report(report)

	if cfg.History.Enabled && !opts.noHistory {
		if err := saveHistory(ctx, cfg, report); err != nil {
			// History is bookkeeping; its failure must not fail the sweep
			slog.Warn("failed to record sweep history", slog.String("error", err.Error()))
			out.Warningf("history not recorded: %v", err)
		}
	}

	if !report.OK() {
		return fmt.Errorf("%d tuple(s) failed", len(report.Failed()))
	}
	return nil
}

// resolveAxis returns the sweep axis from --lang overrides or config.
func resolveAxis(cfg *config.Config, override []string) ([]params.Language, error) {
	if len(override) > 0 {
		return params.ParseLanguages(override)
	}
	return cfg.Axis()
}

// parsePhaseArg parses the legacy positional booleans.
func parsePhaseArg(s, name string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.ValidationError(
			fmt.Sprintf("%s must be a boolean, got %q", name, s), err)
	}
	return v, nil
}

func saveHistory(ctx context.Context, cfg *config.Config, report *sweep.Report) error {
	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	_, err = store.SaveReport(ctx, report)
	return err
}

// loadConfig loads the effective config for the working directory.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return config.Load(wd)
}
