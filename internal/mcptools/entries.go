package mcptools

import (
	"context"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/stats"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListHandler returns the handler function for the list_entries MCP tool.
func ListHandler(store storage.Storage) func(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
		entries, err := store.List(storage.ListOptions{
			From:  input.From,
			To:    input.To,
			Tag:   input.Tag,
			Mood:  input.Mood,
			Limit: input.Limit,
		})
		if err != nil {
			return nil, ListOutput{}, err
		}
		return nil, ListOutput{Entries: toResults(entries)}, nil
	}
}

// GetEntryHandler returns the handler function for the get_entry MCP tool.
func GetEntryHandler(store storage.Storage) func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, EntryDetail, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, EntryDetail, error) {
		e, err := store.Get(input.Date)
		if err != nil {
			return nil, EntryDetail{}, err
		}
		return nil, toDetail(e), nil
	}
}

// AddEntryHandler returns the handler function for the add_entry MCP tool.
// A blank date means today; an existing entry for the date is overwritten.
func AddEntryHandler(store storage.Storage, today func() string) func(ctx context.Context, req *mcp.CallToolRequest, input AddEntryInput) (*mcp.CallToolResult, AddEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AddEntryInput) (*mcp.CallToolResult, AddEntryOutput, error) {
		date := input.Date
		if date == "" {
			date = today()
		}
		saved, replaced, err := store.Add(entry.Entry{
			Date:  date,
			Title: input.Title,
			Body:  input.Body,
			Mood:  input.Mood,
			Tags:  input.Tags,
		})
		if err != nil {
			return nil, AddEntryOutput{}, err
		}
		return nil, AddEntryOutput{
			ID:       saved.ID,
			Date:     saved.Date,
			Replaced: replaced,
			Preview:  saved.Preview(previewLength),
		}, nil
	}
}

// MoodStatsHandler returns the handler function for the mood_stats MCP tool.
func MoodStatsHandler(store storage.Storage, today func() string) func(ctx context.Context, req *mcp.CallToolRequest, input MoodStatsInput) (*mcp.CallToolResult, MoodStatsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MoodStatsInput) (*mcp.CallToolResult, MoodStatsOutput, error) {
		summary, err := stats.FromStore(store, today())
		if err != nil {
			return nil, MoodStatsOutput{}, err
		}
		return nil, MoodStatsOutput{Summary: summary}, nil
	}
}
