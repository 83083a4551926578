/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

// Planning tools: start_planning, save_plan, add_todo, remove_todo,
// get_todos, update_todo_status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planwing/planwing/internal/utils"
	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/planner"
	"github.com/planwing/planwing/session"
	"github.com/planwing/planwing/types"
)

// wrapSessionError converts a session or store failure into a structured MCP
// error carrying a stable code, so clients can branch without parsing text.
func wrapSessionError(err error, operation string) error {
	if err == nil {
		return nil
	}
	var mcpErr *types.MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}
	logError(err)
	return types.NewMCPError(types.ErrorCode(err), err.Error(), map[string]interface{}{
		"operation": operation,
	})
}

// startPlanningHandler opens a planning session for a goal
func startPlanningHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.StartPlanningParams, types.StartPlanningResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.StartPlanningParams]) (*mcpsdk.CallToolResultFor[types.StartPlanningResponse], error) {
		args := params.Arguments
		logToolCall("start_planning", args)

		if strings.TrimSpace(args.Goal) == "" {
			return nil, types.NewMCPError("MISSING_GOAL", "A goal description is required to start planning", map[string]interface{}{
				"field": "goal",
			})
		}

		goal, guidance, err := sess.StartPlanning(args.Goal)
		if err != nil {
			return nil, wrapSessionError(err, "start_planning")
		}

		logInfo(fmt.Sprintf("Started planning session for goal: %s", goal.ID))

		// The text content is the planning methodology for the caller to
		// follow; the goal id travels in the structured payload.
		return &mcpsdk.CallToolResultFor[types.StartPlanningResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: guidance},
			},
			StructuredContent: types.StartPlanningResponse{
				GoalID:  goal.ID,
				Message: fmt.Sprintf("Planning session started for goal %s", goal.ID),
			},
		}, nil
	}
}

// savePlanHandler renders plan text into todos and persists them
func savePlanHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.SavePlanParams, types.SavePlanResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.SavePlanParams]) (*mcpsdk.CallToolResultFor[types.SavePlanResponse], error) {
		args := params.Arguments
		logToolCall("save_plan", args)

		if strings.TrimSpace(args.Plan) == "" {
			return nil, types.NewMCPError("MISSING_PLAN", "Plan text is required", map[string]interface{}{
				"field": "plan",
			})
		}

		count, err := sess.SavePlan(args.Plan)
		if err != nil {
			return nil, wrapSessionError(err, "save_plan")
		}

		logInfo(fmt.Sprintf("Saved %d todos from plan text", count))

		message := fmt.Sprintf("Saved %d %s to the implementation plan.", count, utils.Pluralize(count, "todo", "todos"))
		return &mcpsdk.CallToolResultFor[types.SavePlanResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: message},
			},
			StructuredContent: types.SavePlanResponse{
				Count:   count,
				Message: message,
			},
		}, nil
	}
}

// addTodoHandler appends a single todo to the active plan
func addTodoHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.AddTodoParams, types.TodoResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AddTodoParams]) (*mcpsdk.CallToolResultFor[types.TodoResponse], error) {
		args := params.Arguments
		logToolCall("add_todo", args)

		if strings.TrimSpace(args.Title) == "" {
			return nil, types.NewMCPError("MISSING_TITLE", "Todo title is required", map[string]interface{}{
				"field": "title",
			})
		}
		if strings.TrimSpace(args.Description) == "" {
			return nil, types.NewMCPError("MISSING_DESCRIPTION", "Todo description is required", map[string]interface{}{
				"field": "description",
			})
		}

		complexity := args.Complexity
		if complexity == 0 {
			complexity = planner.DefaultComplexity
		}
		if complexity < models.MinComplexity || complexity > models.MaxComplexity {
			return nil, types.NewMCPError("INVALID_COMPLEXITY", fmt.Sprintf("Complexity must be between %d and %d", models.MinComplexity, models.MaxComplexity), map[string]interface{}{
				"field": "complexity",
				"value": args.Complexity,
			})
		}

		todo, err := sess.AddTodo(models.TodoFields{
			Title:       strings.TrimSpace(args.Title),
			Description: strings.TrimSpace(args.Description),
			Complexity:  complexity,
			CodeExample: args.CodeExample,
		})
		if err != nil {
			return nil, wrapSessionError(err, "add_todo")
		}

		logInfo(fmt.Sprintf("Added todo: %s", todo.ID))

		return &mcpsdk.CallToolResultFor[types.TodoResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: fmt.Sprintf("Added todo '%s' with ID: %s", todo.Title, todo.ID)},
			},
			StructuredContent: todoToResponse(todo),
		}, nil
	}
}

// removeTodoHandler removes a todo from the active plan by id
func removeTodoHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.RemoveTodoParams, types.RemoveTodoResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.RemoveTodoParams]) (*mcpsdk.CallToolResultFor[types.RemoveTodoResponse], error) {
		args := params.Arguments
		logToolCall("remove_todo", args)

		if strings.TrimSpace(args.TodoID) == "" {
			return nil, types.NewMCPError("MISSING_TODO_ID", "A todo ID is required for removal", map[string]interface{}{
				"field": "todo_id",
			})
		}

		if err := sess.RemoveTodo(args.TodoID); err != nil {
			return nil, wrapSessionError(err, "remove_todo")
		}

		logInfo(fmt.Sprintf("Removed todo: %s", args.TodoID))

		message := fmt.Sprintf("Removed todo %s", args.TodoID)
		return &mcpsdk.CallToolResultFor[types.RemoveTodoResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: message},
			},
			StructuredContent: types.RemoveTodoResponse{
				Success: true,
				TodoID:  args.TodoID,
				Message: message,
			},
		}, nil
	}
}

// getTodosHandler lists the active plan's todos in order
func getTodosHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.GetTodosParams, types.TodoListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.GetTodosParams]) (*mcpsdk.CallToolResultFor[types.TodoListResponse], error) {
		logToolCall("get_todos", params.Arguments)

		todos, err := sess.Todos()
		if err != nil {
			return nil, wrapSessionError(err, "get_todos")
		}

		completed := 0
		for _, todo := range todos {
			if todo.IsComplete {
				completed++
			}
		}

		logInfo(fmt.Sprintf("Listed %d todos", len(todos)))

		response := types.TodoListResponse{
			Todos: todosToResponse(todos),
			Count: len(todos),
		}
		return &mcpsdk.CallToolResultFor[types.TodoListResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: fmt.Sprintf("Found %d %s (%d complete)", len(todos), utils.Pluralize(len(todos), "todo", "todos"), completed)},
			},
			StructuredContent: response,
		}, nil
	}
}

// updateTodoStatusHandler toggles a todo's completion state
func updateTodoStatusHandler(sess *session.Session) mcpsdk.ToolHandlerFor[types.UpdateTodoStatusParams, types.TodoResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.UpdateTodoStatusParams]) (*mcpsdk.CallToolResultFor[types.TodoResponse], error) {
		args := params.Arguments
		logToolCall("update_todo_status", args)

		if strings.TrimSpace(args.TodoID) == "" {
			return nil, types.NewMCPError("MISSING_TODO_ID", "A todo ID is required to update status", map[string]interface{}{
				"field": "todo_id",
			})
		}

		todo, err := sess.UpdateTodoStatus(args.TodoID, args.IsComplete)
		if err != nil {
			return nil, wrapSessionError(err, "update_todo_status")
		}

		state := "pending"
		if todo.IsComplete {
			state = "complete"
		}
		logInfo(fmt.Sprintf("Marked todo %s as %s", todo.ID, state))

		return &mcpsdk.CallToolResultFor[types.TodoResponse]{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: fmt.Sprintf("Marked todo '%s' as %s (ID: %s)", todo.Title, state, todo.ID)},
			},
			StructuredContent: todoToResponse(todo),
		}, nil
	}
}
