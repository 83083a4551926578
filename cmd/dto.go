package cmd

import (
	"time"

	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/models"
)

// goalJSON and todoJSON shape --json output. Timestamps are RFC 3339 and a
// short_id is included so scripts can feed it straight back into done/remove.
type goalJSON struct {
	ID          string `json:"id"`
	ShortID     string `json:"short_id"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type todoJSON struct {
	ID          string `json:"id"`
	ShortID     string `json:"short_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complexity  int    `json:"complexity"`
	CodeExample string `json:"code_example,omitempty"`
	IsComplete  bool   `json:"is_complete"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func goalToJSON(goal models.Goal) goalJSON {
	return goalJSON{
		ID:          goal.ID,
		ShortID:     planutil.ShortID(goal.ID, 0),
		Description: goal.Description,
		CreatedAt:   goal.CreatedAt.Format(time.RFC3339),
	}
}

func todoToJSON(todo models.Todo) todoJSON {
	return todoJSON{
		ID:          todo.ID,
		ShortID:     planutil.ShortID(todo.ID, 0),
		Title:       todo.Title,
		Description: todo.Description,
		Complexity:  todo.Complexity,
		CodeExample: todo.CodeExample,
		IsComplete:  todo.IsComplete,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
}

func todosToJSON(todos []models.Todo) []todoJSON {
	out := make([]todoJSON, len(todos))
	for i, t := range todos {
		out[i] = todoToJSON(t)
	}
	return out
}
