package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

func TestShowFullContent(t *testing.T) {
	setupTestEnv(t)
	e := seedEntry(t, entry.Entry{
		Date:  "2026-01-31",
		Title: "Long walk",
		Body:  "Full diary entry content here",
		Mood:  "calm",
		Tags:  []string{"walk", "outside"},
	})

	var buf bytes.Buffer
	if err := showRun(&buf, "2026-01-31", false); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	// Strip ANSI codes for testing since markdown rendering adds color codes
	out := stripANSI(buf.String())

	for _, want := range []string{"2026-01-31  Long walk", "Mood: calm", "Tags: outside, walk", "Entry: " + e.ID, "Full diary entry content here"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowPlain(t *testing.T) {
	setupTestEnv(t)
	seedEntry(t, entry.Entry{Date: "2026-01-31", Title: "Plain", Body: "**not rendered**"})

	var buf bytes.Buffer
	if err := showRun(&buf, "2026-01-31", true); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Title: Plain") || !strings.Contains(out, "**not rendered**") {
		t.Errorf("unexpected plain output:\n%s", out)
	}
}

func TestShowJSON(t *testing.T) {
	setupTestEnv(t)
	jsonOutput = true
	seedEntry(t, entry.Entry{Date: "2026-01-31", Title: "As JSON", Tags: []string{"x"}})

	var buf bytes.Buffer
	if err := showRun(&buf, "2026-01-31", false); err != nil {
		t.Fatalf("showRun: %v", err)
	}
	var got entry.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Date != "2026-01-31" || got.Title != "As JSON" {
		t.Errorf("got %+v", got)
	}
}

func TestShowNotFound(t *testing.T) {
	setupTestEnv(t)

	err := showRun(&bytes.Buffer{}, "2026-01-01", false)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if ExitCode(err) != ExitUserError {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), ExitUserError)
	}
}

func TestShowInvalidDate(t *testing.T) {
	setupTestEnv(t)

	err := showRun(&bytes.Buffer{}, "31/01/2026", false)
	if !errors.Is(err, storage.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
