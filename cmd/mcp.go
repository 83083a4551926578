/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/planwing/planwing/internal/health"
	"github.com/planwing/planwing/internal/telemetry"
	"github.com/planwing/planwing/mcp"
	"github.com/planwing/planwing/session"
	"github.com/spf13/cobra"
)

var mcpHealthAddr string

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI tools like Claude Code,
Cursor, and other assistants can plan through PlanWing.

The server exposes the planning tools over stdio:
- start_planning, save_plan
- add_todo, remove_todo, get_todos, update_todo_status

Example usage with Claude Code:
  planwing mcp

The server runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHealthAddr, "health-addr", "", "serve a liveness probe on this address (e.g. :8000)")
}

func runMCPServer(ctx context.Context) error {
	// MCP uses stdio transport. stdout MUST be pure JSON-RPC; all status
	// output goes to stderr only.
	fmt.Fprintln(os.Stderr, "PlanWing MCP server starting...")

	planningStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to initialize the planning store: %w", err)
	}
	defer func() { _ = planningStore.Close() }()

	mcp.ConfigureHooks(mcp.Hooks{
		LogInfo: func(msg string) {
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
			}
		},
		LogError: func(err error) {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		},
		LogToolCall: func(name string, params interface{}) {
			telemetry.TrackToolCall(name)
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "[DEBUG] tool call: %s\n", name)
			}
		},
		GetVersion: GetVersion,
	})

	// Each MCP connection plans in a fresh session; the CLI's current goal
	// does not carry over.
	sess := session.NewWithGuidance(planningStore, loadPlanningGuidance())

	healthAddr := mcpHealthAddr
	if healthAddr == "" {
		healthAddr = GetConfig().MCP.HealthAddr
	}
	if healthAddr != "" {
		go func() {
			if err := health.Serve(ctx, healthAddr); err != nil {
				fmt.Fprintf(os.Stderr, "[ERROR] health endpoint: %v\n", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "Health endpoint on %s/health\n", healthAddr)
	}

	telemetry.Track(telemetry.EventServerStarted, telemetry.Properties{"transport": "stdio"})

	if err := mcp.Serve(ctx, sess); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	fmt.Fprintln(os.Stderr, "PlanWing MCP server stopped.")
	return nil
}
