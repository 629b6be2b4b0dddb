package cmd

import (
	"bytes"
	"io"

	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
)

var showPlain bool

var showCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show the entry for a date",
	Long:  "Display the full entry for a date with its metadata. The body is rendered as Markdown.",
	Example: `  termdiary show 2026-01-31
  termdiary show 2026-01-31 --plain
  termdiary show 2026-01-31 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(cmd.OutOrStdout(), args[0], showPlain)
	},
}

func showRun(w io.Writer, date string, plain bool) error {
	e, err := store.Get(date)
	if err != nil {
		return err
	}

	if jsonOutput {
		return ui.FormatJSON(w, e)
	}
	if plain {
		ui.FormatEntryPlain(w, e)
		return nil
	}

	t := theme()
	var buf bytes.Buffer
	ui.FormatEntryFull(&buf, e, t.MarkdownStyle, appConfig.MaxWidth)
	return ui.Pager{MaxWidth: appConfig.MaxWidth, Theme: t}.Page(w, buf.String())
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "print without Markdown rendering")
	rootCmd.AddCommand(showCmd)
}
