package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azdo-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/azdo-mcp/internal/connectors/azdo"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop, VS Code and other MCP-compatible assistants.

Use --port (or mcp.port in the settings file) to start an HTTP server
instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Tools:
  search_code      code search, top hits merged with file content
  search_wiki      wiki page search
  search_workitem  work item search

Examples:
  # Stdio mode (default)
  AZDO_ORG=contoso AZDO_TOKEN=... azdo-mcp mcp serve

  # HTTP mode
  azdo-mcp mcp serve --org contoso --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "azdo": {
        "command": "/path/to/azdo-mcp",
        "args": ["mcp", "serve"],
        "env": {"AZDO_ORG": "contoso", "AZDO_AUTH": "pat", "AZDO_TOKEN": "..."}
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

	if err := setupServices(); err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Port
	}

	ports := &mcp.Ports{Search: searchService}
	if client := azdoClient; client != nil {
		ports.OnClient = func(name, clientVersion string) {
			client.SetUserAgent(azdo.UserAgent(name, clientVersion))
		}
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// Stdout is free in HTTP mode.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
