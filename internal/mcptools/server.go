// Package mcptools exposes the diary to Model Context Protocol clients.
package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Version is reported to clients during initialization.
var Version = "1.0.0"

// Options configures a diary MCP server.
type Options struct {
	Logger *zap.Logger
	// Today supplies the default date for add_entry and the streak reference
	// for mood_stats.
	Today func() string
}

// NewDiaryMCPServer creates an in-memory MCP server exposing diary tools.
// Returns the server and a client transport for connecting to it.
func NewDiaryMCPServer(store storage.Storage, opts Options) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(store, opts)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with registered diary tools.
func CreateMCPServer(store storage.Storage, opts Options) *mcp.Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	today := opts.Today
	if today == nil {
		today = entry.Today
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "termdiary",
		Version: Version,
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_entries",
		Description: "Search diary entries by keyword in title, body or tags, newest first",
	}, logged(log, "search_entries", SearchHandler(store)))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List diary entries newest first, optionally filtered by date range, tag or mood",
	}, logged(log, "list_entries", ListHandler(store)))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entry",
		Description: "Read the full diary entry for a date",
	}, logged(log, "get_entry", GetEntryHandler(store)))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mood_stats",
		Description: "Mood and tag counts plus writing streaks",
	}, logged(log, "mood_stats", MoodStatsHandler(store, today)))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_entry",
		Description: "Write the diary entry for a date, replacing any existing entry for that date",
	}, logged(log, "add_entry", AddEntryHandler(store, today)))

	return server
}

// logged wraps a tool handler with debug logging of each call.
func logged[In, Out any](log *zap.Logger, name string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, req, input)
		fields := []zap.Field{zap.String("tool", name), zap.Duration("elapsed", time.Since(start))}
		if err != nil {
			log.Warn("tool call failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("tool call", fields...)
		}
		return res, out, err
	}
}
