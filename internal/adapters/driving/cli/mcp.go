package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/chaja-cli/internal/adapters/driving/mcp"
)

var mcpHTTP string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants. The
vault is indexed once at startup.

Use --http to serve over HTTP instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  chaja mcp

  # HTTP mode (for MCP Inspector, remote access)
  chaja mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "chaja": {
        "command": "/path/to/chaja",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "HTTP listen address (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	_, session, err := openResolvedVault(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Engine.Close()

	if err := session.Build(cmd.Context()); err != nil {
		return fmt.Errorf("index vault: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: session.Search,
		Engine: session.Engine,
	})
	if err != nil {
		return err
	}

	if mcpHTTP != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", mcpHTTP)
		return server.RunHTTP(cmd.Context(), mcpHTTP)
	}

	return server.Run(cmd.Context())
}
