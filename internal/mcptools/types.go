package mcptools

import (
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/stats"
)

const previewLength = 100

// SearchInput is the input schema for the search_entries MCP tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"Keyword matched case-insensitively against title, body and tags"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_entries MCP tool.
type SearchOutput struct {
	Entries []EntryResult `json:"entries"`
}

// ListInput is the input schema for the list_entries MCP tool.
type ListInput struct {
	From  string `json:"from,omitempty" jsonschema:"Earliest date to include, YYYY-MM-DD"`
	To    string `json:"to,omitempty" jsonschema:"Latest date to include, YYYY-MM-DD"`
	Tag   string `json:"tag,omitempty" jsonschema:"Only entries carrying this tag"`
	Mood  string `json:"mood,omitempty" jsonschema:"Only entries with this mood"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// ListOutput is the output schema for the list_entries MCP tool.
type ListOutput struct {
	Entries []EntryResult `json:"entries"`
}

// EntryResult is the summary form of an entry returned by listing tools.
type EntryResult struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Title   string   `json:"title"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
	Preview string   `json:"preview"`
}

// GetEntryInput is the input schema for the get_entry MCP tool.
type GetEntryInput struct {
	Date string `json:"date" jsonschema:"Date of the entry, YYYY-MM-DD"`
}

// EntryDetail is a complete entry.
type EntryDetail struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Mood      string   `json:"mood"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// AddEntryInput is the input schema for the add_entry MCP tool.
type AddEntryInput struct {
	Date  string   `json:"date,omitempty" jsonschema:"Date of the entry, YYYY-MM-DD (default today)"`
	Title string   `json:"title,omitempty" jsonschema:"Entry title"`
	Body  string   `json:"body,omitempty" jsonschema:"Entry text"`
	Mood  string   `json:"mood,omitempty" jsonschema:"Short mood label"`
	Tags  []string `json:"tags,omitempty" jsonschema:"Tags for the entry"`
}

// AddEntryOutput is the output schema for the add_entry MCP tool.
type AddEntryOutput struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Replaced bool   `json:"replaced"`
	Preview  string `json:"preview"`
}

// MoodStatsInput is the input schema for the mood_stats MCP tool.
type MoodStatsInput struct{}

// MoodStatsOutput is the output schema for the mood_stats MCP tool.
type MoodStatsOutput struct {
	Summary stats.Summary `json:"summary"`
}

func toResult(e entry.Entry) EntryResult {
	return EntryResult{
		ID:      e.ID,
		Date:    e.Date,
		Title:   e.Title,
		Mood:    e.Mood,
		Tags:    append([]string{}, e.Tags...),
		Preview: e.Preview(previewLength),
	}
}

func toResults(entries []entry.Entry) []EntryResult {
	results := make([]EntryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, toResult(e))
	}
	return results
}

func toDetail(e entry.Entry) EntryDetail {
	return EntryDetail{
		ID:        e.ID,
		Date:      e.Date,
		Title:     e.Title,
		Body:      e.Body,
		Mood:      e.Mood,
		Tags:      append([]string{}, e.Tags...),
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
