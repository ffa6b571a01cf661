package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchforge/csbench/internal/output"
	"github.com/searchforge/csbench/internal/params"
)

func newDescribeCmd() *cobra.Command {
	var languages []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the parameter set per language without executing",
		Long: `Print the full parameter set each language would run with, without
invoking the backend. Useful for auditing a sweep before committing
accelerator time to it.

Examples:
  csbench describe
  csbench describe --lang ruby --lang go
  csbench describe --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			axis, err := resolveAxis(cfg, languages)
			if err != nil {
				return err
			}

			if jsonOutput {
				return describeJSON(cmd, axis, cfg.Searcher)
			}

			out := output.NewStyled(cmd.OutOrStdout(), output.StylesFor(os.Stdout))
			for _, lang := range axis {
				set, err := params.Build(lang, cfg.Searcher)
				if err != nil {
					return err
				}
				out.Header(string(lang))
				for _, key := range set.Keys() {
					v, _ := set.Get(key)
					out.KV(key, v)
				}
				out.Newline()
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "lang", "l", nil, "Language to describe (repeatable; default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output parameter sets as JSON")

	return cmd
}

func describeJSON(cmd *cobra.Command, axis []params.Language, hp params.Hyperparameters) error {
	type entry struct {
		Language string            `json:"language"`
		Params   map[string]string `json:"params"`
	}

	entries := make([]entry, 0, len(axis))
	for _, lang := range axis {
		set, err := params.Build(lang, hp)
		if err != nil {
			return err
		}
		kv := make(map[string]string, set.Len())
		for _, key := range set.Keys() {
			kv[key], _ = set.Get(key)
		}
		entries = append(entries, entry{Language: string(lang), Params: kv})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
