package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/shell"
	"github.com/chris-regnier/termdiary/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statusData holds the template data for status formatting.
type statusData struct {
	TodayIcon  string
	Streak     int
	StreakIcon string
	Mood       string
	Backend    string
	HasToday   bool
}

var (
	statusEnv     bool
	statusRefresh bool
	statusFormat  string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show diary prompt status",
	Long: `Show diary status for shell prompt integration.

Outputs whether today has an entry and the current writing streak.
Reads from cache when fresh, queries storage when stale.

Use --env to output shell environment variable assignments.
Use --refresh to force a cache refresh.
Use --format with a Go template for custom output.`,
	Example: `  termdiary status
  termdiary status --env
  termdiary status --format "{{.TodayIcon}} {{.Streak}}{{.StreakIcon}} {{.Mood}}"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.OutOrStdout(), time.Now())
	},
}

func statusRun(w io.Writer, now time.Time) error {
	ttl, err := time.ParseDuration(appConfig.Shell.CacheTTL)
	if err != nil {
		ttl = 5 * time.Minute
	}

	cache := shell.ReadCache(appConfig.DataDir)
	if statusRefresh || !cache.IsFresh(ttl, now) {
		st, err := shell.ComputeStatus(store, entry.DateOf(now))
		if err != nil {
			return fmt.Errorf("computing status: %w", err)
		}
		cache = shell.NewCache(st, appConfig.Storage, now)
		if err := shell.WriteCache(appConfig.DataDir, cache); err != nil {
			// A stale prompt is better than a broken one.
			logger.Warn("could not write prompt cache", zap.Error(err))
		}
	}

	data := buildStatusData(cache)
	switch {
	case statusEnv:
		return outputEnv(w, data)
	case statusFormat != "":
		return outputTemplate(w, data, statusFormat)
	case jsonOutput:
		return ui.FormatJSON(w, cache)
	}
	return outputDefault(w, data)
}

func buildStatusData(cache *shell.PromptCache) statusData {
	icon := appConfig.Shell.NoTodayIcon
	if cache.Today {
		icon = appConfig.Shell.TodayIcon
	}
	return statusData{
		TodayIcon:  icon,
		Streak:     cache.Streak,
		StreakIcon: appConfig.Shell.StreakIcon,
		Mood:       cache.Mood,
		Backend:    cache.StorageBackend,
		HasToday:   cache.Today,
	}
}

func outputEnv(w io.Writer, data statusData) error {
	fmt.Fprintf(w, "export TERMDIARY_TODAY=%q\n", data.TodayIcon)
	fmt.Fprintf(w, "export TERMDIARY_STREAK=%q\n", fmt.Sprintf("%d", data.Streak))
	fmt.Fprintf(w, "export TERMDIARY_STREAK_ICON=%q\n", data.StreakIcon)
	if data.Mood != "" {
		fmt.Fprintf(w, "export TERMDIARY_MOOD=%q\n", data.Mood)
	}
	if data.Backend != "" {
		fmt.Fprintf(w, "export TERMDIARY_BACKEND=%q\n", data.Backend)
	}
	return nil
}

func outputTemplate(w io.Writer, data statusData, format string) error {
	tmpl, err := template.New("status").Parse(format)
	if err != nil {
		return fmt.Errorf("%w: invalid format template: %v", errUsage, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing format template: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

func outputDefault(w io.Writer, data statusData) error {
	parts := []string{fmt.Sprintf("%s %d%s", data.TodayIcon, data.Streak, data.StreakIcon)}
	if appConfig.Shell.ShowMood && data.Mood != "" {
		parts = append(parts, data.Mood)
	}
	if appConfig.Shell.ShowBackend && data.Backend != "" {
		parts = append(parts, data.Backend)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func init() {
	statusCmd.Flags().BoolVar(&statusEnv, "env", false, "output shell environment variable assignments")
	statusCmd.Flags().BoolVar(&statusRefresh, "refresh", false, "force cache refresh")
	statusCmd.Flags().StringVar(&statusFormat, "format", "", "Go template format string")
	rootCmd.AddCommand(statusCmd)
}
