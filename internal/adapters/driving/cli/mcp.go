package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can look up
archived conversations.

Tools:      lookup_record, find_records
Resources:  hsarchive://index, hsarchive://runs,
            hsarchive://companies/{company}/records

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  hsarchive mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  hsarchive mcp serve --port 8080

Desktop client configuration:
  {
    "mcpServers": {
      "hsarchive": {
        "command": "/path/to/hsarchive",
        "args": ["mcp", "serve", "--config", "/path/to/hsarchive.toml"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	s, err := requireServices("index service")
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Index: s.Index,
		Sync:  s.Sync,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
