package cmd

import (
	"fmt"
	"os"

	"github.com/chris-regnier/termdiary/internal/config"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/logging"
	"github.com/chris-regnier/termdiary/internal/menu"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/storage/jsonfile"
	"github.com/chris-regnier/termdiary/internal/storage/sqlite"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	cfgFile        string
	jsonOutput     bool
	verbose        bool
	storageBackend string
	dbPathFlag     string
	jsonPathFlag   string
	appConfig      *config.Config
	store          storage.Storage
	logger         = logging.Nop()
)

// skipStoreAnnotation marks commands that manage the storage file themselves.
const skipStoreAnnotation = "termdiary/skip-store"

var rootCmd = &cobra.Command{
	Use:   "termdiary",
	Short: "A terminal diary",
	Long: `termdiary keeps dated journal entries with a title, body, mood and tags.

Run without a subcommand for the interactive menu. Entries live in a SQLite
database (default) or a single JSON file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		applyFlagOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		l, err := logging.New(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
		logger = l

		if cmd.Annotations[skipStoreAnnotation] != "" {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var in menu.Prompter
		if term.IsTerminal(int(os.Stdin.Fd())) {
			rl, err := menu.NewReadlinePrompter(appConfig.HistoryFile)
			if err != nil {
				return err
			}
			in = rl
		} else {
			in = menu.NewLinePrompter(os.Stdin, os.Stdout)
		}
		defer in.Close()

		app := menu.New(store, in, os.Stdout, menuOptions(ui.IsTerminal(os.Stdout)))
		defer invalidatePromptCache()
		return app.Run()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); err == nil {
		err = cerr
	}
	_ = logger.Sync()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend (sqlite|json)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "SQLite database path (storage=sqlite)")
	rootCmd.PersistentFlags().StringVar(&jsonPathFlag, "file", "", "JSON diary file path (storage=json)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func applyFlagOverrides(cfg *config.Config) {
	if storageBackend != "" {
		cfg.Storage = storageBackend
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if jsonPathFlag != "" {
		cfg.JSONPath = jsonPathFlag
	}
}

func openStore() error {
	var err error
	switch appConfig.Storage {
	case config.BackendJSON:
		store, err = jsonfile.New(appConfig.JSONPath)
		if err != nil {
			return fmt.Errorf("initializing json storage: %w", err)
		}
	case config.BackendSQLite:
		store, err = sqlite.New(appConfig.DBPath)
		if err != nil {
			return fmt.Errorf("initializing sqlite storage: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", appConfig.Storage)
	}
	logger.Debug("storage opened",
		zap.String("backend", appConfig.Storage),
		zap.String("path", appConfig.StorePath()))
	return nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

func theme() ui.Theme {
	return ui.ResolveTheme(appConfig.Theme)
}

func exportFormat() export.Format {
	f, err := export.ParseFormat(appConfig.Export.Format)
	if err != nil {
		return export.Markdown
	}
	return f
}

func menuOptions(styled bool) menu.Options {
	return menu.Options{
		Theme:        theme(),
		Styled:       styled,
		ExportFormat: exportFormat(),
		ExportDir:    appConfig.Export.Dir,
		Today:        entry.Today,
		Logger:       logger,
	}
}
