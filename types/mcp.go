/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// MCP Tool Parameter Types

// StartPlanningParams for starting a planning session
type StartPlanningParams struct {
	Goal string `json:"goal" mcp:"Software development goal to plan (required)"`
}

// SavePlanParams for persisting a rendered implementation plan
type SavePlanParams struct {
	Plan string `json:"plan" mcp:"Implementation plan text; '## <title>' headings open todos, 'Complexity: N' scores them, fenced blocks become code examples"`
}

// AddTodoParams for appending a single todo to the current plan
type AddTodoParams struct {
	Title       string `json:"title" mcp:"Todo title (required)"`
	Description string `json:"description" mcp:"Todo description (required)"`
	Complexity  int    `json:"complexity" mcp:"Complexity score from 1 (trivial) to 10 (hardest)"`
	CodeExample string `json:"code_example,omitempty" mcp:"Optional code example illustrating the step"`
}

// RemoveTodoParams for removing a todo from the current plan
type RemoveTodoParams struct {
	TodoID string `json:"todo_id" mcp:"ID of the todo to remove (required)"`
}

// GetTodosParams for listing the current plan's todos
type GetTodosParams struct{}

// UpdateTodoStatusParams for toggling a todo's completion state
type UpdateTodoStatusParams struct {
	TodoID     string `json:"todo_id" mcp:"ID of the todo to update (required)"`
	IsComplete bool   `json:"is_complete" mcp:"New completion status"`
}

// MCP Response Types

// GoalResponse represents a goal in MCP responses
type GoalResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// TodoResponse represents a todo in MCP responses
type TodoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complexity  int    `json:"complexity"`
	CodeExample string `json:"code_example,omitempty"`
	IsComplete  bool   `json:"is_complete"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// PlanResponse represents a plan with its embedded todos
type PlanResponse struct {
	GoalID    string         `json:"goal_id"`
	UpdatedAt string         `json:"updated_at"`
	Todos     []TodoResponse `json:"todos"`
}

// StartPlanningResponse for session start operations
type StartPlanningResponse struct {
	GoalID  string `json:"goal_id"`
	Message string `json:"message"`
}

// SavePlanResponse reports how many todos a plan produced
type SavePlanResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// RemoveTodoResponse for remove operations
type RemoveTodoResponse struct {
	Success bool   `json:"success"`
	TodoID  string `json:"todo_id"`
	Message string `json:"message"`
}

// TodoListResponse for list operations
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
	Count int            `json:"count"`
}
