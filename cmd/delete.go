package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the entry for a date",
	Long: `Permanently delete the entry for a date. Asks for confirmation on a
terminal; use --yes to skip it or when running non-interactively.`,
	Example: `  termdiary delete 2026-01-31
  termdiary delete 2026-01-31 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[0]
		w := cmd.OutOrStdout()

		if !deleteYes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("%w: refusing to delete without --yes when not on a terminal", errUsage)
			}
			// Fetch entry to confirm it exists and show preview
			e, err := store.Get(date)
			if err != nil {
				return err
			}
			detail := fmt.Sprintf("%s  %s\n%s", e.Date, e.DisplayTitle(), e.Preview(60))
			confirmed, err := ui.Confirm("Delete this entry? This cannot be undone.", detail, theme())
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(w, "Canceled.")
				return nil
			}
		}

		return deleteRun(w, date)
	},
}

func deleteRun(w io.Writer, date string) error {
	e, err := store.Get(date)
	if err != nil {
		return err
	}
	if err := store.Delete(e.Date); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{Date: e.Date, Deleted: true})
	}
	ui.FormatEntryDeleted(w, e.Date)
	return nil
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
