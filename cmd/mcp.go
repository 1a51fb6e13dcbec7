package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/scatterbrainlabs/scatterbrain/engine"
	scattermcp "github.com/scatterbrainlabs/scatterbrain/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio so AI tools like
Claude Code and Cursor can create plans, decompose them into leveled tasks,
move the cursor, and complete work under leases.

The server holds its plans in memory and runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(ctx context.Context) error {
	// Stdio transport: stdout must stay pure JSON-RPC, so all diagnostics
	// go to stderr.
	fmt.Fprintln(os.Stderr, "Scatterbrain MCP server starting...")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	registry := engine.NewRegistry(logger)

	impl := &mcpsdk.Implementation{
		Name:    "scatterbrain-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintln(os.Stderr, "MCP connection established")
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "[DEBUG] client initialized")
			}
		},
	}

	server := mcpsdk.NewServer(impl, serverOpts)
	scattermcp.Register(server, registry)

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
