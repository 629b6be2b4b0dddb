package cmd

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/chris-regnier/termdiary/internal/config"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/logging"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/storage/jsonfile"
)

// stripANSI removes ANSI escape sequences from a string
func stripANSI(s string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(s, "")
}

func setupTestStore(t *testing.T) storage.Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := jsonfile.New(filepath.Join(dir, "diary.json"))
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func setupTestEnv(t *testing.T) {
	t.Helper()
	store = setupTestStore(t)
	dir := t.TempDir()
	appConfig = &config.Config{
		Storage:  config.BackendJSON,
		DataDir:  dir,
		JSONPath: filepath.Join(dir, "diary.json"),
		MaxWidth: 100,
		Export:   config.ExportConfig{Format: "md", Dir: filepath.Join(dir, "exports")},
	}
	jsonOutput = false
	logger = logging.Nop()
	t.Cleanup(func() {
		store = nil
		jsonOutput = false
	})
}

func seedEntry(t *testing.T, e entry.Entry) entry.Entry {
	t.Helper()
	saved, _, err := store.Add(e)
	if err != nil {
		t.Fatalf("Add(%s): %v", e.Date, err)
	}
	return saved
}
