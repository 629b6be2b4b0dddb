package mcptools_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/mcptools"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/chris-regnier/termdiary/internal/storage/jsonfile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const testToday = "2026-03-01"

func newSession(t *testing.T, entries ...entry.Entry) (*mcp.ClientSession, storage.Storage) {
	t.Helper()
	store, err := jsonfile.New(filepath.Join(t.TempDir(), "diary.json"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, e := range entries {
		if _, _, err := store.Add(e); err != nil {
			t.Fatalf("failed to add entry: %v", err)
		}
	}

	_, clientTransport := mcptools.NewDiaryMCPServer(store, mcptools.Options{
		Today: func() string { return testToday },
	})
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect client: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, store
}

// call invokes a tool and decodes its structured output into out.
func call(t *testing.T, session *mcp.ClientSession, name string, args any, out any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s) failed: %v", name, err)
	}
	if result.IsError || out == nil {
		return result
	}
	if result.StructuredContent == nil {
		t.Fatalf("%s: expected structured content", name)
	}
	outputJSON, _ := json.Marshal(result.StructuredContent)
	if err := json.Unmarshal(outputJSON, out); err != nil {
		t.Fatalf("failed to unmarshal structured content: %v", err)
	}
	return result
}

func fixtures() []entry.Entry {
	return []entry.Entry{
		{Date: "2026-02-27", Title: "Interfaces", Body: "Today I learned about Go interfaces", Mood: "curious"},
		{Date: "2026-02-28", Title: "Standup", Body: "Meeting notes", Mood: "tired", Tags: []string{"work"}},
		{Date: "2026-03-01", Title: "Run", Body: "Five kilometres", Mood: "happy", Tags: []string{"health"}},
	}
}

func TestMCPServer_SearchEntries(t *testing.T) {
	session, _ := newSession(t, fixtures()...)

	var output mcptools.SearchOutput
	call(t, session, "search_entries", mcptools.SearchInput{Query: "go interfaces"}, &output)
	if len(output.Entries) != 1 || output.Entries[0].Date != "2026-02-27" {
		t.Fatalf("unexpected results %+v", output.Entries)
	}
	if output.Entries[0].Preview == "" || output.Entries[0].ID == "" {
		t.Errorf("expected preview and id, got %+v", output.Entries[0])
	}

	call(t, session, "search_entries", mcptools.SearchInput{Query: "WORK"}, &output)
	if len(output.Entries) != 1 || output.Entries[0].Title != "Standup" {
		t.Errorf("tag-only match failed: %+v", output.Entries)
	}

	call(t, session, "search_entries", mcptools.SearchInput{Query: "e", Limit: 2}, &output)
	if len(output.Entries) != 2 || output.Entries[0].Date != "2026-03-01" {
		t.Errorf("expected 2 newest results, got %+v", output.Entries)
	}

	result := call(t, session, "search_entries", mcptools.SearchInput{Query: "  "}, nil)
	if !result.IsError {
		t.Error("blank query should be a tool error")
	}
}

func TestMCPServer_ListEntries(t *testing.T) {
	session, _ := newSession(t, fixtures()...)

	var output mcptools.ListOutput
	call(t, session, "list_entries", mcptools.ListInput{}, &output)
	if len(output.Entries) != 3 || output.Entries[0].Date != "2026-03-01" {
		t.Fatalf("expected all entries newest first, got %+v", output.Entries)
	}

	call(t, session, "list_entries", mcptools.ListInput{From: "2026-02-28", To: "2026-02-28"}, &output)
	if len(output.Entries) != 1 || output.Entries[0].Title != "Standup" {
		t.Errorf("date range filter failed: %+v", output.Entries)
	}

	call(t, session, "list_entries", mcptools.ListInput{Mood: "HAPPY"}, &output)
	if len(output.Entries) != 1 || output.Entries[0].Title != "Run" {
		t.Errorf("mood filter failed: %+v", output.Entries)
	}

	result := call(t, session, "list_entries", mcptools.ListInput{From: "yesterday"}, nil)
	if !result.IsError {
		t.Error("invalid date should be a tool error")
	}
}

func TestMCPServer_GetEntry(t *testing.T) {
	session, _ := newSession(t, fixtures()...)

	var output mcptools.EntryDetail
	call(t, session, "get_entry", mcptools.GetEntryInput{Date: "2026-02-28"}, &output)
	if output.Body != "Meeting notes" || output.Mood != "tired" || len(output.Tags) != 1 {
		t.Errorf("unexpected entry %+v", output)
	}
	if output.CreatedAt == "" || output.UpdatedAt == "" {
		t.Error("expected timestamps")
	}

	result := call(t, session, "get_entry", mcptools.GetEntryInput{Date: "2020-01-01"}, nil)
	if !result.IsError {
		t.Error("missing entry should be a tool error")
	}
}

func TestMCPServer_AddEntry(t *testing.T) {
	session, store := newSession(t)

	var output mcptools.AddEntryOutput
	call(t, session, "add_entry", mcptools.AddEntryInput{Title: "Hello", Body: "First entry", Tags: []string{"b", "a"}}, &output)
	if output.Date != testToday || output.Replaced || output.ID == "" {
		t.Fatalf("unexpected output %+v", output)
	}

	saved, err := store.Get(testToday)
	if err != nil {
		t.Fatalf("entry not found in storage: %v", err)
	}
	if saved.ID != output.ID || saved.Body != "First entry" || len(saved.Tags) != 2 || saved.Tags[0] != "a" {
		t.Errorf("stored entry mismatch %+v", saved)
	}

	call(t, session, "add_entry", mcptools.AddEntryInput{Date: testToday, Body: "Rewritten"}, &output)
	if !output.Replaced || output.ID != saved.ID {
		t.Errorf("expected overwrite keeping the id, got %+v", output)
	}

	result := call(t, session, "add_entry", mcptools.AddEntryInput{Date: "2026-13-01", Body: "x"}, nil)
	if !result.IsError {
		t.Error("invalid date should be a tool error")
	}
	result = call(t, session, "add_entry", mcptools.AddEntryInput{Date: "2026-02-01"}, nil)
	if !result.IsError {
		t.Error("an entry without title or body should be rejected")
	}
}

func TestMCPServer_MoodStats(t *testing.T) {
	session, _ := newSession(t, fixtures()...)

	var output mcptools.MoodStatsOutput
	call(t, session, "mood_stats", mcptools.MoodStatsInput{}, &output)
	s := output.Summary
	if s.Total != 3 || s.CurrentStreak != 3 || s.LongestStreak != 3 || !s.TodayWritten {
		t.Errorf("unexpected summary %+v", s)
	}
	if len(s.Moods) != 3 || len(s.Tags) != 2 {
		t.Errorf("unexpected counts %+v %+v", s.Moods, s.Tags)
	}
}

func TestMCPServer_ListsTools(t *testing.T) {
	session, _ := newSession(t)

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	want := map[string]bool{"search_entries": true, "list_entries": true, "get_entry": true, "add_entry": true, "mood_stats": true}
	for _, tool := range res.Tools {
		delete(want, tool.Name)
	}
	if len(want) != 0 {
		t.Errorf("missing tools: %v", want)
	}
}
