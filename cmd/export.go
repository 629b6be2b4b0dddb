package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFormatFlag string
	exportOut        string
	exportAll        bool
	exportDir        string
)

// exportResult is the JSON form of a file export.
type exportResult struct {
	Paths []string `json:"paths"`
}

var exportCmd = &cobra.Command{
	Use:   "export [date]",
	Short: "Export entries as plain text or Markdown",
	Long: `Export one entry or the whole diary.

  export <date>             write the entry to stdout
  export <date> --out F     write the entry to F (extension added when missing)
  export                    write every entry as one document to stdout
  export --out F            write every entry as one document to F
  export --all [--dir D]    write one file per entry into D (export.dir by default)`,
	Example: `  termdiary export 2026-01-31 --format txt
  termdiary export --all --format md --dir ./exports
  termdiary export > diary.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := exportFormat()
		if exportFormatFlag != "" {
			var err error
			if f, err = export.ParseFormat(exportFormatFlag); err != nil {
				return err
			}
		}

		var date string
		if len(args) == 1 {
			date = args[0]
		}
		if date != "" && exportAll {
			return fmt.Errorf("%w: --all cannot be combined with a date", errUsage)
		}

		dir := exportDir
		if dir == "" {
			dir = appConfig.Export.Dir
		}
		return exportRun(cmd.OutOrStdout(), exportRequest{
			Date:   date,
			All:    exportAll,
			Out:    exportOut,
			Dir:    dir,
			Format: f,
		})
	},
}

type exportRequest struct {
	Date   string
	All    bool
	Out    string
	Dir    string
	Format export.Format
}

func exportRun(w io.Writer, req exportRequest) error {
	switch {
	case req.Date != "":
		e, err := store.Get(req.Date)
		if err != nil {
			return err
		}
		if req.Out == "" {
			return export.WriteEntry(w, e, req.Format)
		}
		path, err := export.EntryToFile(e, req.Out, req.Format)
		if err != nil {
			return err
		}
		return reportExport(w, []string{path}, fmt.Sprintf("Exported to %s", path))

	case req.All:
		entries, err := store.ExportAll()
		if err != nil {
			return err
		}
		paths, err := export.AllToFolder(entries, req.Dir, req.Format)
		if err != nil {
			return err
		}
		return reportExport(w, paths, fmt.Sprintf("Exported %d entries to %s", len(paths), req.Dir))

	default:
		entries, err := store.ExportAll()
		if err != nil {
			return err
		}
		if req.Out == "" {
			return export.WriteAll(w, entries, req.Format)
		}
		path, err := export.CollectionToFile(entries, req.Out, req.Format)
		if err != nil {
			return err
		}
		return reportExport(w, []string{path}, fmt.Sprintf("Exported %d entries to %s", len(entries), path))
	}
}

func reportExport(w io.Writer, paths []string, msg string) error {
	logger.Debug("export finished", zap.Strings("paths", paths))
	if jsonOutput {
		if paths == nil {
			paths = []string{}
		}
		return ui.FormatJSON(w, exportResult{Paths: paths})
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

var importSkipExisting bool

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import entries from exported .txt or .md files",
	Long: `Read single-entry exports back into the diary. The format is chosen by
extension. An imported entry replaces any entry for the same date unless
--skip-existing is given.`,
	Example: `  termdiary import exports/2026-01-31-Long walk.md
  termdiary import --skip-existing exports/*.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(cmd.OutOrStdout(), args, importSkipExisting)
	},
}

// importResult is the JSON form of one imported file.
type importResult struct {
	File     string `json:"file"`
	Date     string `json:"date"`
	Replaced bool   `json:"replaced"`
	Skipped  bool   `json:"skipped"`
}

func importRun(w io.Writer, files []string, skipExisting bool) error {
	results := make([]importResult, 0, len(files))
	for _, file := range files {
		e, err := export.ReadFile(file)
		if err != nil {
			return err
		}
		res := importResult{File: file, Date: e.Date}

		if skipExisting {
			if _, err := store.Get(e.Date); err == nil {
				res.Skipped = true
				results = append(results, res)
				if !jsonOutput {
					fmt.Fprintf(w, "Skipped %s: an entry for %s exists\n", file, e.Date)
				}
				continue
			}
		}

		saved, replaced, err := store.Add(importable(e))
		if err != nil {
			return fmt.Errorf("importing %s: %w", file, err)
		}
		res.Replaced = replaced
		results = append(results, res)
		if !jsonOutput {
			ui.FormatEntrySaved(w, saved, replaced)
		}
	}
	if jsonOutput {
		return ui.FormatJSON(w, results)
	}
	return nil
}

// importable drops an unusable id and the modification time; the store
// stamps UpdatedAt on write.
func importable(e entry.Entry) entry.Entry {
	if entry.ValidateID(e.ID) != nil {
		e.ID = ""
	}
	e.UpdatedAt = time.Time{}
	return e
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "", "txt or md (default export.format)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "one file per entry")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "target folder for --all (default export.dir)")
	importCmd.Flags().BoolVar(&importSkipExisting, "skip-existing", false, "leave entries for existing dates untouched")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
