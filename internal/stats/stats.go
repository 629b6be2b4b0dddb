// Package stats summarises a diary: mood counts, tag counts and writing
// streaks.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

// NoMood labels entries without a mood.
const NoMood = "(none)"

// Count is one label and how many entries carry it.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the result of Compute.
type Summary struct {
	Total         int     `json:"total"`
	FirstDate     string  `json:"first_date,omitempty"`
	LastDate      string  `json:"last_date,omitempty"`
	Moods         []Count `json:"moods"`
	Tags          []Count `json:"tags"`
	TodayWritten  bool    `json:"today_written"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
}

// FromStore loads every entry and computes a summary relative to today.
func FromStore(store storage.Storage, today string) (Summary, error) {
	entries, err := store.ExportAll()
	if err != nil {
		return Summary{}, err
	}
	return Compute(entries, today), nil
}

// Compute summarises entries. today is the local date streaks are measured
// against.
func Compute(entries []entry.Entry, today string) Summary {
	s := Summary{Total: len(entries), Moods: []Count{}, Tags: []Count{}}
	if len(entries) == 0 {
		return s
	}

	moods := make(map[string]int)
	tags := make(map[string]int)
	daySet := make(map[string]bool, len(entries))
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		mood := strings.TrimSpace(e.Mood)
		if mood == "" {
			mood = NoMood
		}
		moods[mood]++
		for _, t := range e.Tags {
			tags[t]++
		}
		if !daySet[e.Date] {
			daySet[e.Date] = true
			dates = append(dates, e.Date)
		}
	}
	sort.Strings(dates)

	s.FirstDate = dates[0]
	s.LastDate = dates[len(dates)-1]
	s.Moods = sortedCounts(moods)
	s.Tags = sortedCounts(tags)
	s.TodayWritten = daySet[today]
	s.CurrentStreak = currentStreak(daySet, today)
	s.LongestStreak = longestStreak(dates)
	return s
}

// sortedCounts orders by count descending, then label.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// currentStreak counts consecutive days backwards from today. A streak that
// ended yesterday is still current until today is over.
func currentStreak(daySet map[string]bool, today string) int {
	check, err := time.Parse(entry.DateLayout, today)
	if err != nil {
		return 0
	}
	if !daySet[today] {
		check = check.AddDate(0, 0, -1)
	}

	streak := 0
	for daySet[check.Format(entry.DateLayout)] {
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak scans sorted, distinct dates for the longest consecutive run.
func longestStreak(dates []string) int {
	longest, run := 0, 0
	var prev time.Time
	for i, d := range dates {
		t, err := time.Parse(entry.DateLayout, d)
		if err != nil {
			run = 0
			continue
		}
		if i > 0 && run > 0 && prev.AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		prev = t
		if run > longest {
			longest = run
		}
	}
	return longest
}
