package mcp

import (
	"time"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/types"
)

func goalToResponse(goal models.Goal) types.GoalResponse {
	return types.GoalResponse{
		ID:          goal.ID,
		Description: goal.Description,
		CreatedAt:   goal.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func todoToResponse(todo models.Todo) types.TodoResponse {
	return types.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Complexity:  todo.Complexity,
		CodeExample: todo.CodeExample,
		IsComplete:  todo.IsComplete,
		CreatedAt:   todo.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   todo.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// todosToResponse keeps the order of the input and always returns a non-nil
// slice so todo lists serialize as [] rather than null.
func todosToResponse(todos []models.Todo) []types.TodoResponse {
	out := make([]types.TodoResponse, len(todos))
	for i, todo := range todos {
		out[i] = todoToResponse(todo)
	}
	return out
}

func planToResponse(plan models.Plan) types.PlanResponse {
	return types.PlanResponse{
		GoalID:    plan.GoalID,
		UpdatedAt: plan.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Todos:     todosToResponse(plan.Todos),
	}
}
