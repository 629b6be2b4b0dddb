package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/termdiary/internal/editor"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	editTitle string
	editBody  string
	editMood  string
	editTags  string
)

var editCmd = &cobra.Command{
	Use:   "edit <date>",
	Short: "Edit the entry for a date",
	Long: `Change fields of an existing entry. Only the flags you pass are changed;
an empty --mood or --tags clears that field. Without any field flags the
body is opened in your editor. The date of an entry never changes.`,
	Example: `  termdiary edit 2026-01-31
  termdiary edit 2026-01-31 --mood tired --tags work,late
  termdiary edit 2026-01-31 --tags ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[0]
		flags := cmd.Flags()

		var p entry.Patch
		if flags.Changed("title") {
			p.Title = &editTitle
		}
		if flags.Changed("body") {
			p.Body = &editBody
		}
		if flags.Changed("mood") {
			p.Mood = &editMood
		}
		if flags.Changed("tags") {
			p = p.WithTags(entry.ParseTags(editTags))
		}

		if p.Empty() {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("%w: pass --title, --body, --mood or --tags when not on a terminal", errUsage)
			}
			cur, err := store.Get(date)
			if err != nil {
				return err
			}
			body, changed, err := editor.New(appConfig.Editor).Edit(cur.Body)
			if err != nil {
				return err
			}
			if changed {
				p.Body = &body
			}
		}

		return editRun(cmd.OutOrStdout(), date, p)
	},
}

func editRun(w io.Writer, date string, p entry.Patch) error {
	cur, err := store.Get(date)
	if err != nil {
		return err
	}

	updated := cur.Apply(p)
	if p.Empty() || !entry.Changed(cur, updated) {
		if jsonOutput {
			return ui.FormatJSON(w, cur)
		}
		ui.FormatNoChanges(w, cur.Date)
		return nil
	}

	saved, err := store.Edit(cur.Date, p)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, saved)
	}
	if diff := ui.FormatBodyDiff(cur.Body, saved.Body, ui.IsTerminal(w), theme()); diff != "" {
		fmt.Fprint(w, diff)
	}
	ui.FormatEntryUpdated(w, saved)
	return nil
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editBody, "body", "b", "", "new body")
	editCmd.Flags().StringVarP(&editMood, "mood", "m", "", "new mood (empty clears)")
	editCmd.Flags().StringVar(&editTags, "tags", "", "new comma-separated tags (empty clears)")
	rootCmd.AddCommand(editCmd)
}
