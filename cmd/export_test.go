package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/storage"
)

func TestExportEntryToStdout(t *testing.T) {
	setupTestEnv(t)
	seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "Fools", Body: "No pranks this year.", Mood: "wry", Tags: []string{"spring"}})

	var buf bytes.Buffer
	if err := exportRun(&buf, exportRequest{Date: "2026-04-01", Format: export.Text}); err != nil {
		t.Fatalf("exportRun: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Fools - 2026-04-01", "Mood: wry", "Tags: spring", "No pranks this year."} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q:\n%s", want, out)
		}
	}
}

func TestExportEntryToFile(t *testing.T) {
	setupTestEnv(t)
	seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "Fools", Body: "body"})
	out := filepath.Join(t.TempDir(), "fools")

	var buf bytes.Buffer
	if err := exportRun(&buf, exportRequest{Date: "2026-04-01", Out: out, Format: export.Markdown}); err != nil {
		t.Fatalf("exportRun: %v", err)
	}
	want := out + ".md"
	if strings.TrimSpace(buf.String()) != "Exported to "+want {
		t.Errorf("unexpected output %q", buf.String())
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestExportAllToFolder(t *testing.T) {
	setupTestEnv(t)
	seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "One"})
	seedEntry(t, entry.Entry{Date: "2026-04-02", Title: "Two/Three?"})
	dir := filepath.Join(t.TempDir(), "out")
	jsonOutput = true

	var buf bytes.Buffer
	if err := exportRun(&buf, exportRequest{All: true, Dir: dir, Format: export.Markdown}); err != nil {
		t.Fatalf("exportRun: %v", err)
	}
	var res exportResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := []string{
		filepath.Join(dir, "2026-04-01-One.md"),
		filepath.Join(dir, "2026-04-02-TwoThree.md"),
	}
	if len(res.Paths) != 2 || res.Paths[0] != want[0] || res.Paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", res.Paths, want)
	}
}

func TestExportCollection(t *testing.T) {
	setupTestEnv(t)
	seedEntry(t, entry.Entry{Date: "2026-04-02", Title: "Later"})
	seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "Earlier"})

	var buf bytes.Buffer
	if err := exportRun(&buf, exportRequest{Format: export.Markdown}); err != nil {
		t.Fatalf("exportRun: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "Earlier") > strings.Index(out, "Later") {
		t.Errorf("collection should be oldest first:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "diary.txt")
	buf.Reset()
	if err := exportRun(&buf, exportRequest{Out: path, Format: export.Text}); err != nil {
		t.Fatalf("exportRun to file: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Exported 2 entries to "+path {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestExportNotFound(t *testing.T) {
	setupTestEnv(t)

	err := exportRun(&bytes.Buffer{}, exportRequest{Date: "2026-04-01", Format: export.Text})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImportRoundTrip(t *testing.T) {
	setupTestEnv(t)
	orig := seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "Round trip", Body: "# Heading\n\nSome *markdown*.", Mood: "curious", Tags: []string{"a", "b"}})
	dir := t.TempDir()
	paths, err := export.AllToFolder([]entry.Entry{orig}, dir, export.Markdown)
	if err != nil {
		t.Fatalf("AllToFolder: %v", err)
	}
	if err := store.Delete(orig.Date); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var buf bytes.Buffer
	if err := importRun(&buf, paths, false); err != nil {
		t.Fatalf("importRun: %v", err)
	}
	got, err := store.Get("2026-04-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != orig.Title || got.Body != orig.Body || got.Mood != orig.Mood || strings.Join(got.Tags, ",") != "a,b" {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.ID != orig.ID {
		t.Errorf("id = %s, want %s", got.ID, orig.ID)
	}
}

func TestImportSkipExisting(t *testing.T) {
	setupTestEnv(t)
	e := seedEntry(t, entry.Entry{Date: "2026-04-01", Title: "Exported"})
	path, err := export.EntryToFile(e, filepath.Join(t.TempDir(), "e"), export.Text)
	if err != nil {
		t.Fatalf("EntryToFile: %v", err)
	}
	if _, err := store.Edit("2026-04-01", entry.Patch{Title: strPtr("Local change")}); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	var buf bytes.Buffer
	if err := importRun(&buf, []string{path}, true); err != nil {
		t.Fatalf("importRun: %v", err)
	}
	if !strings.Contains(buf.String(), "Skipped") {
		t.Errorf("unexpected output %q", buf.String())
	}
	got, _ := store.Get("2026-04-01")
	if got.Title != "Local change" {
		t.Errorf("existing entry overwritten: %q", got.Title)
	}
}

func TestImportUnsupportedExtension(t *testing.T) {
	setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := importRun(&bytes.Buffer{}, []string{path}, false)
	if !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
