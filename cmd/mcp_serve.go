package cmd

import (
	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes diary tools
over stdio transport, so MCP clients can read and write your diary.

Available tools:
  - search_entries: keyword search over titles, bodies and tags
  - list_entries:   list entries by date range, tag or mood
  - get_entry:      read the entry for a date
  - add_entry:      write the entry for a date
  - mood_stats:     mood and tag counts plus writing streaks

Example client config:
  {
    "mcpServers": {
      "termdiary": {
        "command": "/path/to/termdiary",
        "args": ["mcp-serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcptools.CreateMCPServer(store, mcptools.Options{
			Logger: logger,
			Today:  entry.Today,
		})

		// stdout is reserved for the protocol; the logger writes to stderr.
		logger.Info("starting MCP server",
			zap.String("transport", "stdio"),
			zap.String("backend", appConfig.Storage),
			zap.String("path", appConfig.StorePath()))

		// This blocks until the transport is closed
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}
