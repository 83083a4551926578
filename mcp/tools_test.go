package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/prompts"
	"github.com/planwing/planwing/session"
	"github.com/planwing/planwing/store"
	"github.com/planwing/planwing/types"
)

// setupPlanningSession provisions a session over an isolated file store.
func setupPlanningSession(t *testing.T) *session.Session {
	t.Helper()

	st := store.NewFilePlanningStore()
	if err := st.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "planning.json"),
		"dataFileFormat": "json",
	}); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return session.New(st)
}

func startSession(t *testing.T, sess *session.Session) models.Goal {
	t.Helper()
	goal, _, err := sess.StartPlanning("Ship the planning server")
	if err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}
	return goal
}

func assertMCPErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var mcpErr *types.MCPError
	if !errors.As(err, &mcpErr) {
		t.Fatalf("Expected a structured MCP error, got %v", err)
	}
	if mcpErr.Code != code {
		t.Errorf("Error code: got %q, want %q", mcpErr.Code, code)
	}
}

func TestStartPlanningTool(t *testing.T) {
	sess := setupPlanningSession(t)
	h := startPlanningHandler(sess)

	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.StartPlanningParams]{
		Arguments: types.StartPlanningParams{Goal: "Build a rate limiter"},
	})
	if err != nil {
		t.Fatalf("start_planning failed: %v", err)
	}
	if res.StructuredContent.GoalID == "" {
		t.Error("Response should carry the goal ID")
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; text != prompts.PlanningGuidance {
		t.Error("Text content should be the planning guidance")
	}

	goal, err := sess.CurrentGoal()
	if err != nil {
		t.Fatalf("CurrentGoal failed: %v", err)
	}
	if goal.Description != "Build a rate limiter" {
		t.Errorf("Goal description: got %q", goal.Description)
	}
	if goal.ID != res.StructuredContent.GoalID {
		t.Errorf("Goal ID mismatch: %q vs %q", goal.ID, res.StructuredContent.GoalID)
	}
}

func TestStartPlanningTool_MissingGoal(t *testing.T) {
	sess := setupPlanningSession(t)
	h := startPlanningHandler(sess)

	_, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.StartPlanningParams]{
		Arguments: types.StartPlanningParams{Goal: "   "},
	})
	assertMCPErrorCode(t, err, "MISSING_GOAL")
}

func TestSavePlanTool(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	h := savePlanHandler(sess)

	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.SavePlanParams]{
		Arguments: types.SavePlanParams{Plan: "## Step 1\nDo X\n```code```\n## Step 2\nDo Y"},
	})
	if err != nil {
		t.Fatalf("save_plan failed: %v", err)
	}
	if res.StructuredContent.Count != 2 {
		t.Errorf("Count: got %d, want 2", res.StructuredContent.Count)
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; text != "Saved 2 todos to the implementation plan." {
		t.Errorf("Text: got %q", text)
	}

	todos, err := sess.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 2 || todos[0].Title != "Step 1" || todos[1].Title != "Step 2" {
		t.Errorf("Persisted todos wrong: %v", todos)
	}
}

func TestSavePlanTool_Preconditions(t *testing.T) {
	sess := setupPlanningSession(t)
	h := savePlanHandler(sess)

	_, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.SavePlanParams]{
		Arguments: types.SavePlanParams{Plan: ""},
	})
	assertMCPErrorCode(t, err, "MISSING_PLAN")

	_, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.SavePlanParams]{
		Arguments: types.SavePlanParams{Plan: "## Step\nWork"},
	})
	assertMCPErrorCode(t, err, "NO_ACTIVE_GOAL")
}

func TestAddTodoTool(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	h := addTodoHandler(sess)

	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.AddTodoParams]{
		Arguments: types.AddTodoParams{Title: "Write the parser", Description: "Line-oriented", Complexity: 7},
	})
	if err != nil {
		t.Fatalf("add_todo failed: %v", err)
	}
	if res.StructuredContent.ID == "" || res.StructuredContent.Complexity != 7 {
		t.Errorf("Unexpected todo response: %+v", res.StructuredContent)
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; !strings.Contains(text, "Write the parser") {
		t.Errorf("Text should mention the title, got %q", text)
	}

	// Omitted complexity defaults rather than failing validation.
	res, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.AddTodoParams]{
		Arguments: types.AddTodoParams{Title: "Score me later", Description: "No complexity given"},
	})
	if err != nil {
		t.Fatalf("add_todo without complexity failed: %v", err)
	}
	if res.StructuredContent.Complexity != 5 {
		t.Errorf("Default complexity: got %d, want 5", res.StructuredContent.Complexity)
	}
}

func TestAddTodoTool_Validation(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	h := addTodoHandler(sess)

	cases := []struct {
		name string
		args types.AddTodoParams
		code string
	}{
		{"missing title", types.AddTodoParams{Description: "d"}, "MISSING_TITLE"},
		{"missing description", types.AddTodoParams{Title: "t"}, "MISSING_DESCRIPTION"},
		{"complexity too high", types.AddTodoParams{Title: "t", Description: "d", Complexity: 11}, "INVALID_COMPLEXITY"},
		{"complexity negative", types.AddTodoParams{Title: "t", Description: "d", Complexity: -1}, "INVALID_COMPLEXITY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.AddTodoParams]{Arguments: tc.args})
			assertMCPErrorCode(t, err, tc.code)
		})
	}

	todos, err := sess.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("Rejected todos must not be persisted, got %d", len(todos))
	}
}

func TestAddTodoTool_NoSession(t *testing.T) {
	sess := setupPlanningSession(t)
	h := addTodoHandler(sess)

	_, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.AddTodoParams]{
		Arguments: types.AddTodoParams{Title: "t", Description: "d", Complexity: 5},
	})
	assertMCPErrorCode(t, err, "NO_ACTIVE_GOAL")
}

func TestRemoveTodoTool(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	todo, err := sess.AddTodo(models.TodoFields{Title: "Doomed", Description: "To be removed", Complexity: 2})
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	h := removeTodoHandler(sess)
	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.RemoveTodoParams]{
		Arguments: types.RemoveTodoParams{TodoID: todo.ID},
	})
	if err != nil {
		t.Fatalf("remove_todo failed: %v", err)
	}
	if !res.StructuredContent.Success || res.StructuredContent.TodoID != todo.ID {
		t.Errorf("Unexpected response: %+v", res.StructuredContent)
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; text != "Removed todo "+todo.ID {
		t.Errorf("Text: got %q", text)
	}

	// Removing the same id again is an error, not a silent no-op.
	_, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.RemoveTodoParams]{
		Arguments: types.RemoveTodoParams{TodoID: todo.ID},
	})
	assertMCPErrorCode(t, err, "NOT_FOUND")

	_, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.RemoveTodoParams]{
		Arguments: types.RemoveTodoParams{TodoID: "  "},
	})
	assertMCPErrorCode(t, err, "MISSING_TODO_ID")
}

func TestGetTodosTool(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	h := getTodosHandler(sess)

	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.GetTodosParams]{})
	if err != nil {
		t.Fatalf("get_todos failed: %v", err)
	}
	if res.StructuredContent.Count != 0 {
		t.Errorf("Count: got %d, want 0", res.StructuredContent.Count)
	}
	if res.StructuredContent.Todos == nil {
		t.Error("Todos must be an empty list, not null")
	}

	for _, title := range []string{"first", "second", "third"} {
		if _, err := sess.AddTodo(models.TodoFields{Title: title, Description: "step", Complexity: 3}); err != nil {
			t.Fatalf("AddTodo failed: %v", err)
		}
	}

	res, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.GetTodosParams]{})
	if err != nil {
		t.Fatalf("get_todos failed: %v", err)
	}
	if res.StructuredContent.Count != 3 {
		t.Fatalf("Count: got %d, want 3", res.StructuredContent.Count)
	}
	for i, want := range []string{"first", "second", "third"} {
		if got := res.StructuredContent.Todos[i].Title; got != want {
			t.Errorf("Todo %d: got %q, want %q", i, got, want)
		}
	}
}

func TestUpdateTodoStatusTool(t *testing.T) {
	sess := setupPlanningSession(t)
	startSession(t, sess)
	todo, err := sess.AddTodo(models.TodoFields{Title: "Flip me", Description: "Toggle state", Complexity: 1})
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	h := updateTodoStatusHandler(sess)
	res, err := h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.UpdateTodoStatusParams]{
		Arguments: types.UpdateTodoStatusParams{TodoID: todo.ID, IsComplete: true},
	})
	if err != nil {
		t.Fatalf("update_todo_status failed: %v", err)
	}
	if !res.StructuredContent.IsComplete {
		t.Error("Todo should be complete")
	}
	if text := res.Content[0].(*mcpsdk.TextContent).Text; !strings.Contains(text, "complete") {
		t.Errorf("Text: got %q", text)
	}
	if res.StructuredContent.UpdatedAt == todoToResponse(todo).UpdatedAt {
		t.Error("UpdatedAt should advance on status change")
	}

	_, err = h(context.Background(), nil, &mcpsdk.CallToolParamsFor[types.UpdateTodoStatusParams]{
		Arguments: types.UpdateTodoStatusParams{TodoID: "00000000-0000-4000-8000-000000000000", IsComplete: true},
	})
	assertMCPErrorCode(t, err, "NOT_FOUND")
}
