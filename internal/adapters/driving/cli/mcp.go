package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/mcp"
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

Tools: index_contract, get_clauses, evaluate_contract, list_contracts.
Resources: contracts://list, contracts://{id}/evaluation.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  taxclause mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  taxclause mcp serve --port 8080

MCP client configuration:
  {
    "mcpServers": {
      "taxclause": {
        "command": "/path/to/taxclause",
        "args": ["mcp", "serve", "--backend", "sqlite"]
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

	contracts, err := contractService()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Contracts: contracts})
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
