package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chris-regnier/termdiary/internal/editor"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	addDate  string
	addTitle string
	addBody  string
	addMood  string
	addTags  string
)

var addCmd = &cobra.Command{
	Use:   "add [body...]",
	Short: "Write the entry for a date",
	Long: `Write the diary entry for a date (today by default).

The body is taken from the arguments or --body. "-" reads it from stdin.
With neither a title nor a body, your editor is opened.
An existing entry for the same date is replaced.`,
	Example: `  termdiary add --title "Long walk" "Went up the hill behind the house."
  termdiary add --date 2026-01-31 --mood calm --tags walk,outside -
  termdiary add`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := addBody
		if len(args) > 0 {
			body = strings.Join(args, " ")
		}

		if body == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			body = string(data)
		}

		if strings.TrimSpace(body) == "" && strings.TrimSpace(addTitle) == "" {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("%w: add needs a title or a body", errUsage)
			}
			edited, changed, err := editor.New(appConfig.Editor).Edit("")
			if err != nil {
				return err
			}
			if !changed {
				return fmt.Errorf("%w: empty entry, nothing saved", errUsage)
			}
			body = edited
		}

		date := addDate
		if date == "" {
			date = entry.Today()
		}
		return addRun(cmd.OutOrStdout(), entry.Entry{
			Date:  date,
			Title: addTitle,
			Body:  body,
			Mood:  addMood,
			Tags:  entry.ParseTags(addTags),
		})
	},
}

func addRun(w io.Writer, e entry.Entry) error {
	saved, replaced, err := store.Add(e)
	if err != nil {
		return err
	}
	logger.Debug("entry saved", zap.String("date", saved.Date), zap.Bool("replaced", replaced))

	if jsonOutput {
		return ui.FormatJSON(w, ui.SaveResult{Entry: saved, Replaced: replaced})
	}
	ui.FormatEntrySaved(w, saved, replaced)
	return nil
}

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "entry date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "entry title")
	addCmd.Flags().StringVarP(&addBody, "body", "b", "", `entry body ("-" reads stdin)`)
	addCmd.Flags().StringVarP(&addMood, "mood", "m", "", "mood label")
	addCmd.Flags().StringVar(&addTags, "tags", "", "comma-separated tags")
	rootCmd.AddCommand(addCmd)
}
