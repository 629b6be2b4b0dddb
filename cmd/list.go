package cmd

import (
	"bytes"
	"io"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listFrom   string
	listTo     string
	listTag    string
	listMood   string
	listLimit  int
	listOffset int
	listAsc    bool
	listDates  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries",
	Long:  "List diary entries one per line (date, title, mood, tags), newest first.",
	Example: `  termdiary list
  termdiary list --from 2026-01-01 --to 2026-01-31
  termdiary list --tag work --mood tired
  termdiary list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd.OutOrStdout(), storage.ListOptions{
			From:      listFrom,
			To:        listTo,
			Tag:       listTag,
			Mood:      listMood,
			Limit:     listLimit,
			Offset:    listOffset,
			Ascending: listAsc,
		}, listDates)
	},
}

func listRun(w io.Writer, opts storage.ListOptions, datesOnly bool) error {
	entries, err := store.List(opts)
	if err != nil {
		return err
	}
	return printEntries(w, entries, datesOnly)
}

// printEntries writes an entry listing in the selected output mode.
func printEntries(w io.Writer, entries []entry.Entry, datesOnly bool) error {
	switch {
	case jsonOutput:
		return ui.FormatJSON(w, ui.ToSummaries(entries))
	case datesOnly:
		for _, e := range entries {
			if _, err := io.WriteString(w, e.Date+"\n"); err != nil {
				return err
			}
		}
		return nil
	}

	var buf bytes.Buffer
	ui.FormatEntryList(&buf, entries)
	return ui.Pager{MaxWidth: appConfig.MaxWidth, Theme: theme()}.Page(w, buf.String())
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "earliest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "latest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only entries with this tag")
	listCmd.Flags().StringVar(&listMood, "mood", "", "only entries with this mood")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of entries")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "skip this many entries")
	listCmd.Flags().BoolVar(&listAsc, "asc", false, "oldest first")
	listCmd.Flags().BoolVar(&listDates, "dates-only", false, "print just the dates, one per line")
	rootCmd.AddCommand(listCmd)
}
