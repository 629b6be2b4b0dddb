package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var searchDates bool

var searchCmd = &cobra.Command{
	Use:   "search <keyword...>",
	Short: "Search entries by keyword",
	Long:  "Case-insensitive search across titles, bodies and tags. Matches are listed newest first.",
	Example: `  termdiary search river
  termdiary search "long walk" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return searchRun(cmd.OutOrStdout(), strings.Join(args, " "), searchDates)
	},
}

func searchRun(w io.Writer, keyword string, datesOnly bool) error {
	results, err := store.Search(keyword)
	if err != nil {
		return err
	}
	if len(results) == 0 && !jsonOutput {
		fmt.Fprintln(w, "No results found")
		return nil
	}
	return printEntries(w, results, datesOnly)
}

func init() {
	searchCmd.Flags().BoolVar(&searchDates, "dates-only", false, "print just the dates, one per line")
	rootCmd.AddCommand(searchCmd)
}
