package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/searchforge/csbench/internal/history"
	"github.com/searchforge/csbench/internal/output"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	var showOutcomes bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sweep outcomes",
		Long: `List recent sweeps from the local history store, newest first.

Examples:
  csbench history
  csbench history --limit 5 --outcomes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in configuration")
			}
			if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
				return fmt.Errorf("no history recorded yet. Run 'csbench run' first")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sweeps, err := store.RecentSweeps(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := output.NewStyled(cmd.OutOrStdout(), output.StylesFor(os.Stdout))
			if len(sweeps) == 0 {
				out.Status("", "no sweeps recorded")
				return nil
			}

			for _, s := range sweeps {
				line := fmt.Sprintf("#%-4d %-10s %s  %d attempted, %d failed",
					s.ID, s.Phases, s.Started.Format(time.RFC3339), s.Attempted, s.Failed)
				if s.Failed == 0 {
					out.Success(line)
				} else {
					out.Error(line)
				}

				if showOutcomes {
					outcomes, err := store.Outcomes(cmd.Context(), s.ID)
					if err != nil {
						return err
					}
					for _, o := range outcomes {
						status := "ok"
						if !o.OK {
							status = "FAILED: " + o.Error
						}
						out.KV(fmt.Sprintf("%s/%s", o.Language, o.Phase), status)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of sweeps to list")
	cmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Show per-phase outcomes for each sweep")

	return cmd
}
