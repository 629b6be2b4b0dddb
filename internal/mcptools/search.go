package mcptools

import (
	"context"

	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultSearchLimit = 10

// SearchHandler returns the handler function for the search_entries MCP tool.
func SearchHandler(store storage.Storage) func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}

		entries, err := store.Search(input.Query)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return nil, SearchOutput{Entries: toResults(entries)}, nil
	}
}
