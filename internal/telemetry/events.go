package telemetry

// Event names sent to the ingestion endpoint. Properties never include
// goal text, plan content, or todo titles.
const (
	// EventCommandExecuted fires once per CLI command with its name,
	// duration, and success flag.
	EventCommandExecuted = "command_executed"

	// EventToolCalled fires once per MCP tool invocation with the tool name.
	EventToolCalled = "mcp_tool_called"

	// EventServerStarted fires when the MCP stdio server begins serving.
	EventServerStarted = "mcp_server_started"
)
