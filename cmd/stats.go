package cmd

import (
	"io"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/stats"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mood tracker and writing streaks",
	Long:  "Show how often each mood and tag appears, and your current and longest daily writing streaks.",
	Example: `  termdiary stats
  termdiary stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsRun(cmd.OutOrStdout(), entry.Today())
	},
}

func statsRun(w io.Writer, today string) error {
	summary, err := stats.FromStore(store, today)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, summary)
	}
	ui.FormatStats(w, summary)
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
