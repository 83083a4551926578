package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planwing/planwing/session"
)

// ServerName identifies this server to MCP clients.
const ServerName = "planwing-mcp"

// NewServer assembles an MCP server exposing the planning tools, resources,
// and prompts over the given session.
func NewServer(sess *session.Session) (*mcpsdk.Server, error) {
	impl := &mcpsdk.Implementation{
		Name:    ServerName,
		Version: currentVersion(),
	}
	server := mcpsdk.NewServer(impl, &mcpsdk.ServerOptions{})

	if err := RegisterPlanningTools(server, sess); err != nil {
		return nil, fmt.Errorf("failed to register MCP tools: %w", err)
	}
	if err := RegisterPlanningResources(server, sess); err != nil {
		return nil, fmt.Errorf("failed to register MCP resources: %w", err)
	}
	if err := RegisterPlanningPrompts(server, sess); err != nil {
		return nil, fmt.Errorf("failed to register MCP prompts: %w", err)
	}

	return server, nil
}

// Serve runs the MCP server over stdin/stdout until the client disconnects.
// Nothing else may write to stdout while it runs.
func Serve(ctx context.Context, sess *session.Session) error {
	server, err := NewServer(sess)
	if err != nil {
		return err
	}
	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// RegisterPlanningTools registers the planning tools on the server.
func RegisterPlanningTools(server *mcpsdk.Server, sess *session.Session) error {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "start_planning",
		Description: "🎯 CALL FIRST: Start a planning session for a software development goal. Creates the goal with an empty implementation plan and returns a structured thinking methodology to follow while drafting it.",
	}, startPlanningHandler(sess))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "save_plan",
		Description: "Save a drafted implementation plan. Each '## <title>' heading becomes a todo, 'Complexity: N' lines score it (1-10, default 5), and the first fenced code block becomes its code example. Returns how many todos were added.",
	}, savePlanHandler(sess))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_todo",
		Description: "Add a single todo to the current plan: title, description, complexity (1-10), optional code_example. Returns the created todo with its ID.",
	}, addTodoHandler(sess))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "remove_todo",
		Description: "Remove a todo from the current plan by ID. Removing an unknown ID is an error, not a no-op.",
	}, removeTodoHandler(sess))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_todos",
		Description: "List the current plan's todos in the order they were added, with completion state and count.",
	}, getTodosHandler(sess))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "update_todo_status",
		Description: "Mark a todo complete or pending by ID. Returns the updated todo.",
	}, updateTodoStatusHandler(sess))

	return nil
}
