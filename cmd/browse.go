package cmd

import (
	"fmt"
	"os"

	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	browseTag  string
	browseMood string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse entries in a full-screen list",
	Long: `Open a full-screen list of entries. Press / to filter, enter to read an
entry, d to delete it, esc to go back and q to quit.`,
	Example: `  termdiary browse
  termdiary browse --tag work`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("%w: browse needs a terminal, try list", errUsage)
		}
		return ui.RunBrowse(cmd.OutOrStdout(), store,
			storage.ListOptions{Tag: browseTag, Mood: browseMood},
			ui.BrowseConfig{MaxWidth: appConfig.MaxWidth, Theme: theme()})
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseTag, "tag", "", "only entries with this tag")
	browseCmd.Flags().StringVar(&browseMood, "mood", "", "only entries with this mood")
	rootCmd.AddCommand(browseCmd)
}
