package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// ThemeConfig holds TUI color configuration.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	Background    string `mapstructure:"background"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// ExportConfig holds defaults for the export command and menu action.
type ExportConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ShellConfig holds shell prompt integration settings.
type ShellConfig struct {
	CacheTTL    string `mapstructure:"cache_ttl"`
	TodayIcon   string `mapstructure:"today_icon"`
	NoTodayIcon string `mapstructure:"no_today_icon"`
	StreakIcon  string `mapstructure:"streak_icon"`
	ShowMood    bool   `mapstructure:"show_mood"`
	ShowBackend bool   `mapstructure:"show_backend"`
}

// Config holds the application configuration.
type Config struct {
	Storage     string       `mapstructure:"storage"`
	DataDir     string       `mapstructure:"data_dir"`
	DBPath      string       `mapstructure:"db_path"`
	JSONPath    string       `mapstructure:"json_path"`
	Editor      string       `mapstructure:"editor"`
	HistoryFile string       `mapstructure:"history_file"`
	MaxWidth    int          `mapstructure:"max_width"`
	Export      ExportConfig `mapstructure:"export"`
	Log         LogConfig    `mapstructure:"log"`
	Theme       ThemeConfig  `mapstructure:"theme"`
	Shell       ShellConfig  `mapstructure:"shell"`
}

// DefaultDataDir returns the default data directory (~/.termdiary/).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".termdiary")
	}
	return filepath.Join(home, ".termdiary")
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Load reads configuration from file, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults. Every key needs one so environment overrides are seen by
	// Unmarshal.
	v.SetDefault("storage", BackendSQLite)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("db_path", "")
	v.SetDefault("json_path", "")
	v.SetDefault("editor", "")
	v.SetDefault("history_file", "")
	v.SetDefault("max_width", 100)
	v.SetDefault("export.format", "md")
	v.SetDefault("export.dir", "./exports")
	v.SetDefault("log.level", "warn")
	v.SetDefault("theme.preset", "default-dark")
	v.SetDefault("theme.primary", "")
	v.SetDefault("theme.secondary", "")
	v.SetDefault("theme.accent", "")
	v.SetDefault("theme.muted", "")
	v.SetDefault("theme.danger", "")
	v.SetDefault("theme.background", "")
	v.SetDefault("theme.markdown_style", "")
	v.SetDefault("shell.cache_ttl", "5m")
	v.SetDefault("shell.today_icon", "✓")
	v.SetDefault("shell.no_today_icon", "✗")
	v.SetDefault("shell.streak_icon", "🔥")
	v.SetDefault("shell.show_mood", false)
	v.SetDefault("shell.show_backend", false)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "termdiary"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: TERMDIARY_STORAGE, TERMDIARY_EXPORT_FORMAT, etc.
	v.SetEnvPrefix("TERMDIARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicit --config must exist and parse; a broken
			// discovered file is still an error.
			if configPath != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths fills the data-dir relative defaults.
func (c *Config) resolvePaths() {
	c.DataDir = expandHome(c.DataDir)
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "diary.db")
	}
	if c.JSONPath == "" {
		c.JSONPath = filepath.Join(c.DataDir, "diary.json")
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.DataDir, "history")
	}
	c.DBPath = expandHome(c.DBPath)
	c.JSONPath = expandHome(c.JSONPath)
	c.HistoryFile = expandHome(c.HistoryFile)
	c.Export.Dir = expandHome(c.Export.Dir)
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	switch c.Storage {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("invalid storage backend %q (use %s or %s)", c.Storage, BackendSQLite, BackendJSON)
	}
	if c.MaxWidth < 20 {
		return fmt.Errorf("max_width must be at least 20, got %d", c.MaxWidth)
	}
	return nil
}

// StorePath returns the file backing the configured storage backend.
func (c *Config) StorePath() string {
	if c.Storage == BackendJSON {
		return c.JSONPath
	}
	return c.DBPath
}
