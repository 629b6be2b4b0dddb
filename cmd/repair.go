package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chris-regnier/termdiary/internal/config"
	"github.com/chris-regnier/termdiary/internal/storage/jsonfile"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair a damaged JSON diary file",
	Long: `Fix a JSON diary file that termdiary refuses to read. Broken JSON syntax
is repaired, entries with unusable dates are dropped and duplicate dates keep
the most recently updated record. The original is saved with a .bak suffix.

Only applies to the json storage backend.`,
	Example: `  termdiary repair --storage json
  termdiary repair --storage json --file ~/notes/diary.json`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.Storage != config.BackendJSON {
			return fmt.Errorf("%w: repair only applies to the json backend (use --storage json)", errUsage)
		}
		return repairRun(cmd.OutOrStdout(), appConfig.JSONPath)
	},
}

func repairRun(w io.Writer, path string) error {
	report, err := jsonfile.Repair(path)
	if err != nil {
		return err
	}
	logger.Info("repair finished", zap.String("path", path), zap.Bool("changed", report.Changed()))

	if jsonOutput {
		return ui.FormatJSON(w, report)
	}
	if !report.Changed() {
		fmt.Fprintf(w, "%s is healthy (%d entries), nothing to do.\n", path, report.Kept)
		return nil
	}
	fmt.Fprintf(w, "Repaired %s (%d entries kept)\n", path, report.Kept)
	if report.SyntaxRepaired {
		fmt.Fprintln(w, "  fixed JSON syntax")
	}
	if len(report.DroppedEntries) > 0 {
		fmt.Fprintf(w, "  dropped entries with bad dates: %s\n", strings.Join(report.DroppedEntries, ", "))
	}
	if len(report.MergedDuplicate) > 0 {
		fmt.Fprintf(w, "  merged duplicate dates: %s\n", strings.Join(report.MergedDuplicate, ", "))
	}
	if report.FixedTimestamps > 0 {
		fmt.Fprintf(w, "  reset %d unreadable timestamps\n", report.FixedTimestamps)
	}
	if report.BackupPath != "" {
		fmt.Fprintf(w, "  original saved as %s\n", report.BackupPath)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
