package stats

import (
	"path/filepath"
	"testing"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage/jsonfile"
)

func day(date, mood string, tags ...string) entry.Entry {
	return entry.Entry{Date: date, Title: "t", Mood: mood, Tags: tags}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, "2026-01-20")
	if s.Total != 0 || s.CurrentStreak != 0 || s.LongestStreak != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Moods == nil || s.Tags == nil {
		t.Error("counts should be empty slices, not nil")
	}
}

func TestComputeMoodsAndTags(t *testing.T) {
	entries := []entry.Entry{
		day("2026-01-10", "happy", "work"),
		day("2026-01-11", "tired", "work", "gym"),
		day("2026-01-12", "happy"),
		day("2026-01-13", ""),
		day("2026-01-14", "calm", "gym"),
	}
	s := Compute(entries, "2026-01-20")

	wantMoods := []Count{{"happy", 2}, {NoMood, 1}, {"calm", 1}, {"tired", 1}}
	if len(s.Moods) != len(wantMoods) {
		t.Fatalf("moods = %v", s.Moods)
	}
	for i := range wantMoods {
		if s.Moods[i] != wantMoods[i] {
			t.Errorf("moods[%d] = %v, want %v", i, s.Moods[i], wantMoods[i])
		}
	}

	wantTags := []Count{{"gym", 2}, {"work", 2}}
	if len(s.Tags) != len(wantTags) || s.Tags[0] != wantTags[0] || s.Tags[1] != wantTags[1] {
		t.Errorf("tags = %v, want %v", s.Tags, wantTags)
	}
	if s.Total != 5 || s.FirstDate != "2026-01-10" || s.LastDate != "2026-01-14" {
		t.Errorf("unexpected totals %+v", s)
	}
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantLongest int
		wantToday   bool
	}{
		{"ends today", []string{"2026-01-18", "2026-01-19", "2026-01-20"}, "2026-01-20", 3, 3, true},
		{"ends yesterday", []string{"2026-01-18", "2026-01-19"}, "2026-01-20", 2, 2, false},
		{"broken", []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-19"}, "2026-01-20", 1, 4, false},
		{"stale", []string{"2026-01-01", "2026-01-02"}, "2026-01-20", 0, 2, false},
		{"month boundary", []string{"2026-01-31", "2026-02-01", "2026-02-02"}, "2026-02-02", 3, 3, true},
		{"unsorted input", []string{"2026-01-20", "2026-01-18", "2026-01-19"}, "2026-01-20", 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []entry.Entry
			for _, d := range tt.dates {
				entries = append(entries, day(d, ""))
			}
			s := Compute(entries, tt.today)
			if s.CurrentStreak != tt.wantCurrent {
				t.Errorf("current streak = %d, want %d", s.CurrentStreak, tt.wantCurrent)
			}
			if s.LongestStreak != tt.wantLongest {
				t.Errorf("longest streak = %d, want %d", s.LongestStreak, tt.wantLongest)
			}
			if s.TodayWritten != tt.wantToday {
				t.Errorf("today written = %v, want %v", s.TodayWritten, tt.wantToday)
			}
		})
	}
}

func TestFromStore(t *testing.T) {
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "diary.json"))
	if err != nil {
		t.Fatalf("jsonfile.New: %v", err)
	}
	for _, e := range []entry.Entry{day("2026-01-19", "ok"), day("2026-01-20", "ok")} {
		if _, _, err := store.Add(e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	s, err := FromStore(store, "2026-01-20")
	if err != nil {
		t.Fatalf("FromStore: %v", err)
	}
	if s.Total != 2 || s.CurrentStreak != 2 || len(s.Moods) != 1 || s.Moods[0].Count != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
}
