package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/stats"
)

const timestampLayout = "2006-01-02 15:04"

// FormatEntrySaved formats the confirmation for Add.
func FormatEntrySaved(w io.Writer, e entry.Entry, replaced bool) {
	if replaced {
		fmt.Fprintf(w, "Replaced entry for %s (%s)\n", e.Date, e.ID)
		return
	}
	fmt.Fprintf(w, "Saved entry for %s (%s)\n", e.Date, e.ID)
}

// FormatEntryUpdated formats an update confirmation message.
func FormatEntryUpdated(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "Updated entry for %s (%s)\n", e.Date, e.UpdatedAt.Local().Format(timestampLayout))
}

// FormatEntryDeleted formats a deletion confirmation message.
func FormatEntryDeleted(w io.Writer, date string) {
	fmt.Fprintf(w, "Deleted entry for %s.\n", date)
}

// FormatNoChanges formats a "no changes" message.
func FormatNoChanges(w io.Writer, date string) {
	fmt.Fprintf(w, "No changes detected for %s.\n", date)
}

// FormatEntryFull formats an entry with a metadata header and the body
// rendered through glamour.
func FormatEntryFull(w io.Writer, e entry.Entry, markdownStyle string, width int) {
	fmt.Fprintf(w, "%s  %s\n", e.Date, e.DisplayTitle())
	if e.Mood != "" {
		fmt.Fprintf(w, "Mood: %s\n", e.Mood)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(w, "Entry: %s  Created: %s  Modified: %s\n",
		e.ID,
		e.CreatedAt.Local().Format(timestampLayout),
		e.UpdatedAt.Local().Format(timestampLayout),
	)
	if e.Body == "" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMarkdownWithStyle(e.Body, width, markdownStyle))
}

// FormatEntryPlain writes an entry as an unstyled block between rules, for
// the interactive menu and non-terminal output.
func FormatEntryPlain(w io.Writer, e entry.Entry) {
	rule := strings.Repeat("-", 40)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "ID: %s\n", e.ID)
	fmt.Fprintf(w, "Date: %s\n", e.Date)
	fmt.Fprintf(w, "Title: %s\n", e.Title)
	fmt.Fprintf(w, "Mood: %s\n", e.Mood)
	fmt.Fprintf(w, "Tags: %s\n", strings.Join(e.Tags, ", "))
	fmt.Fprintln(w, "-")
	fmt.Fprintln(w, e.Body)
	fmt.Fprintln(w, rule)
}

// truncate shortens s to at most n display columns.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// pad right-pads s with spaces to n display columns.
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// FormatEntryList formats entries as one line each: date, title, mood, tags.
func FormatEntryList(w io.Writer, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No diary entries found.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %s  %s",
			e.Date,
			pad(truncate(e.DisplayTitle(), 30), 30),
			pad(truncate(e.Mood, 12), 12),
			strings.Join(e.Tags, ","),
		)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// FormatStats writes the mood tracker and streak summary.
func FormatStats(w io.Writer, s stats.Summary) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No mood data yet")
		return
	}
	fmt.Fprintf(w, "Entries: %d (%s to %s)\n", s.Total, s.FirstDate, s.LastDate)
	fmt.Fprintf(w, "Current streak: %d day%s", s.CurrentStreak, plural(s.CurrentStreak))
	if !s.TodayWritten && s.CurrentStreak > 0 {
		fmt.Fprint(w, " (write today to keep it)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Longest streak: %d day%s\n", s.LongestStreak, plural(s.LongestStreak))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mood counts:")
	for _, c := range s.Moods {
		fmt.Fprintf(w, "%s: %d\n", c.Label, c.Count)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tag counts:")
		for _, c := range s.Tags {
			fmt.Fprintf(w, "%s: %d\n", c.Label, c.Count)
		}
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EntrySummary is a JSON representation for list output.
type EntrySummary struct {
	Date      string    `json:"date"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	Preview   string    `json:"preview"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSummaries converts entries to summary format for JSON list output.
func ToSummaries(entries []entry.Entry) []EntrySummary {
	summaries := make([]EntrySummary, len(entries))
	for i, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		summaries[i] = EntrySummary{
			Date:      e.Date,
			ID:        e.ID,
			Title:     e.Title,
			Mood:      e.Mood,
			Tags:      tags,
			Preview:   e.Preview(60),
			UpdatedAt: e.UpdatedAt,
		}
	}
	return summaries
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	Date    string `json:"date"`
	Deleted bool   `json:"deleted"`
}

// SaveResult is a JSON representation for add output.
type SaveResult struct {
	Entry    entry.Entry `json:"entry"`
	Replaced bool        `json:"replaced"`
}
