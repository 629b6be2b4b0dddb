package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

func TestNewCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diary.json")
	if _, err := New(path); err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON written: %v", err)
	}
	if entries, ok := doc["entries"].([]interface{}); !ok || len(entries) != 0 {
		t.Errorf("expected empty entries array, got %v", doc["entries"])
	}
}

func TestDocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, d := range []string{"2026-01-16", "2026-01-14"} {
		if _, _, err := s.Add(entry.Entry{Date: d, Title: "Café <notes>", Tags: []string{"x"}}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	data, _ := os.ReadFile(path)
	text := string(data)
	if !strings.Contains(text, "Café <notes>") {
		t.Errorf("expected unescaped text in file:\n%s", text)
	}
	if strings.Index(text, "2026-01-14") > strings.Index(text, "2026-01-16") {
		t.Errorf("entries should be stored oldest first:\n%s", text)
	}
	if !strings.Contains(text, "\n  \"entries\": [") {
		t.Errorf("expected two-space indentation:\n%s", text)
	}
}

func TestMalformedFile(t *testing.T) {
	cases := map[string]string{
		"syntax":            `{"entries": [ {"date": "2026-01-15", "title": "x"} `,
		"bad date":          `{"entries": [ {"date": "Jan 15", "title": "x"} ]}`,
		"duplicate date":    `{"entries": [ {"date": "2026-01-15", "title": "x"}, {"date": "2026-01-15", "title": "y"} ]}`,
		"trailing document": "{\"entries\": [ {\"date\": \"2026-01-15\", \"title\": \"x\"} ]}\n{\"entries\": []}",
		"trailing garbage":  `{"entries": []} ]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "diary.json")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			s, err := New(path)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			if _, err := s.List(storage.ListOptions{}); !errors.Is(err, storage.ErrMalformed) {
				t.Errorf("List: expected ErrMalformed, got %v", err)
			}
			if _, _, err := s.Add(entry.Entry{Date: "2026-02-01", Title: "new"}); !errors.Is(err, storage.ErrMalformed) {
				t.Errorf("Add: expected ErrMalformed, got %v", err)
			}
			if !IsMalformed(s.Delete("2026-01-15")) {
				t.Error("Delete: expected malformed error")
			}

			data, _ := os.ReadFile(path)
			if string(data) != content {
				t.Errorf("malformed file was modified:\n%s", data)
			}
		})
	}
}

func TestLegacyDocumentWithoutVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.json")
	content := `{"entries": [{"id": "abc12345", "date": "2026-01-15", "title": "old", "body": "b", "mood": "", "tags": ["a"],
		"created_at": "2026-01-15T10:00:00Z", "updated_at": "2026-01-15T10:00:00Z"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := s.Get("2026-01-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "abc12345" || got.Title != "old" {
		t.Errorf("got %+v", got)
	}
}

func TestRepairSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.json")
	broken := `{"entries": [{"date": "2026-01-15", "title": "kept", "tags": ["a"], "created_at": "2026-01-15T10:00:00Z", "updated_at": "2026-01-15T10:00:00Z"},]`
	if err := os.WriteFile(path, []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := Repair(path)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !report.SyntaxRepaired || report.Kept != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	backup, err := os.ReadFile(report.BackupPath)
	if err != nil || string(backup) != broken {
		t.Errorf("backup missing or altered: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := s.Get("2026-01-15")
	if err != nil {
		t.Fatalf("Get after repair: %v", err)
	}
	if got.Title != "kept" || entry.ValidateID(got.ID) != nil {
		t.Errorf("got %+v", got)
	}
}

func TestRepairDuplicatesAndBadDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.json")
	content := `{"entries": [
		{"date": "2026-01-15", "title": "older", "created_at": "2026-01-15T10:00:00Z", "updated_at": "2026-01-15T10:00:00Z"},
		{"date": "2026-01-15", "title": "newer", "created_at": "2026-01-15T10:00:00Z", "updated_at": "2026-01-16T10:00:00Z"},
		{"date": "someday", "title": "dropped"},
		{"date": "2026-01-17", "title": "legacy tags", "tags": "x, y", "created_at": "2026-01-17T09:30:00.123456"}
	]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := Repair(path)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(report.MergedDuplicate) != 1 || len(report.DroppedEntries) != 1 || report.Kept != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.FixedTimestamps == 0 {
		t.Error("expected unparseable timestamps to be fixed")
	}

	s, _ := New(path)
	got, err := s.Get("2026-01-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "newer" {
		t.Errorf("expected most recently updated duplicate to win, got %q", got.Title)
	}
	legacy, err := s.Get("2026-01-17")
	if err != nil {
		t.Fatalf("Get legacy: %v", err)
	}
	if len(legacy.Tags) != 2 || legacy.Tags[0] != "x" || legacy.Tags[1] != "y" {
		t.Errorf("legacy tags = %v", legacy.Tags)
	}
}

func TestRepairCleanFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.json")
	s, _ := New(path)
	if _, _, err := s.Add(entry.Entry{Date: "2026-01-15", Title: "fine"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before, _ := os.ReadFile(path)

	report, err := Repair(path)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if report.Changed() || report.BackupPath != "" {
		t.Errorf("expected no changes, got %+v", report)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("clean file was rewritten")
	}
}
