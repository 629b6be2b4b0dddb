package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/stats"
)

func sampleEntry() entry.Entry {
	ts := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return entry.Entry{
		ID:        "abc12345",
		Date:      "2026-01-15",
		Title:     "Morning walk",
		Body:      "Saw a **heron**.",
		Mood:      "content",
		Tags:      []string{"outdoors", "walk"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestFormatEntryFull(t *testing.T) {
	var buf bytes.Buffer
	FormatEntryFull(&buf, sampleEntry(), "dark", 80)
	out := stripANSI(buf.String())

	for _, want := range []string{"2026-01-15  Morning walk", "Mood: content", "Tags: outdoors, walk", "Entry: abc12345", "heron"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**heron**") {
		t.Errorf("body should be rendered, got:\n%s", out)
	}
}

func TestFormatEntryPlain(t *testing.T) {
	var buf bytes.Buffer
	FormatEntryPlain(&buf, sampleEntry())
	want := strings.Repeat("-", 40) + "\n" +
		"ID: abc12345\nDate: 2026-01-15\nTitle: Morning walk\nMood: content\nTags: outdoors, walk\n-\n" +
		"Saw a **heron**.\n" +
		strings.Repeat("-", 40) + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatEntryList(t *testing.T) {
	var buf bytes.Buffer
	FormatEntryList(&buf, nil)
	if buf.String() != "No diary entries found.\n" {
		t.Errorf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	long := entry.Entry{Date: "2026-01-16", Title: strings.Repeat("ü", 40)}
	FormatEntryList(&buf, []entry.Entry{sampleEntry(), long})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "2026-01-15  Morning walk") || !strings.HasSuffix(lines[0], "outdoors,walk") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], "...") {
		t.Errorf("long title should be truncated: %q", lines[1])
	}
	if strings.HasSuffix(lines[1], " ") {
		t.Errorf("trailing spaces should be trimmed: %q", lines[1])
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	FormatStats(&buf, stats.Summary{})
	if buf.String() != "No mood data yet\n" {
		t.Errorf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	FormatStats(&buf, stats.Summary{
		Total: 3, FirstDate: "2026-01-01", LastDate: "2026-01-03",
		Moods:         []stats.Count{{Label: "happy", Count: 2}, {Label: stats.NoMood, Count: 1}},
		Tags:          []stats.Count{{Label: "work", Count: 1}},
		CurrentStreak: 1, LongestStreak: 3,
	})
	out := buf.String()
	for _, want := range []string{"Entries: 3 (2026-01-01 to 2026-01-03)", "Current streak: 1 day (write today", "Longest streak: 3 days", "happy: 2\n(none): 1\n", "Tag counts:\nwork: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestToSummaries(t *testing.T) {
	s := ToSummaries([]entry.Entry{sampleEntry(), {Date: "2026-01-16", Body: "b"}})
	if len(s) != 2 || s[0].Title != "Morning walk" || s[0].Preview != "Saw a **heron**." {
		t.Errorf("unexpected summaries %+v", s)
	}
	if s[1].Tags == nil {
		t.Error("tags should never be nil in JSON output")
	}
}

func TestDiffBodies(t *testing.T) {
	d := DiffBodies("one\ntwo\nthree", "one\n2\nthree\nfour")
	if d.Added != 2 || d.Deleted != 1 {
		t.Errorf("added=%d deleted=%d, lines=%+v", d.Added, d.Deleted, d.Lines)
	}

	out := FormatBodyDiff("one\ntwo\nthree", "one\n2\nthree\nfour", false, testTheme())
	for _, want := range []string{" one\n", "-two\n", "+2\n", "+four\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in diff:\n%s", want, out)
		}
	}

	if FormatBodyDiff("same", "same", false, testTheme()) != "" {
		t.Error("identical bodies should produce no diff")
	}
}
