package store

import "github.com/planwing/planwing/models"

// PlanningStore defines the interface for goal, plan, and todo persistence.
// It outlines the contract for creating goals, attaching a single plan to
// each goal, and managing the plan's ordered todo list, along with
// initialization, backup, restore, and resource cleanup.
type PlanningStore interface {
	// Initialize configures the store with necessary parameters, such as
	// file path, data format, and any other backend-specific settings.
	// It should be called before any other store operations.
	Initialize(config map[string]string) error

	// CreateGoal adds a new goal built from the given description.
	// It returns the created goal with its generated identifier and
	// timestamp, or a validation error if the description is blank.
	CreateGoal(description string) (models.Goal, error)

	// GetGoal retrieves a goal by its unique identifier.
	// It returns the found goal or a not-found error if no goal with that
	// identifier exists.
	GetGoal(goalID string) (models.Goal, error)

	// CreatePlan creates an empty plan attached to the given goal.
	// It returns a not-found error if the goal does not exist, and an
	// already-exists error if the goal already has a plan; an existing
	// plan is never replaced.
	CreatePlan(goalID string) (models.Plan, error)

	// GetPlan retrieves the plan for a goal, including its todos in
	// insertion order. It returns a not-found error if the goal or its
	// plan does not exist.
	GetPlan(goalID string) (models.Plan, error)

	// AddTodo appends a todo built from the given fields to the goal's
	// plan, preserving insertion order and refreshing the plan's updated
	// timestamp. Validation errors from the model layer propagate
	// unchanged.
	AddTodo(goalID string, fields models.TodoFields) (models.Todo, error)

	// RemoveTodo deletes a todo from the goal's plan by its identifier and
	// refreshes the plan's updated timestamp. Removing an identifier that
	// is not present returns a not-found error rather than succeeding
	// silently.
	RemoveTodo(goalID, todoID string) error

	// GetTodos returns the goal's todos in insertion order. The returned
	// slice is empty, never nil, when the plan holds no todos.
	GetTodos(goalID string) ([]models.Todo, error)

	// UpdateTodoStatus sets a todo's completion flag, refreshes the
	// updated timestamps of both the todo and its plan, and returns the
	// updated todo.
	UpdateTodoStatus(goalID, todoID string, isComplete bool) (models.Todo, error)

	// Backup creates a backup of the current planning data to the
	// specified destination path. The format and method of backup are
	// implementation-specific.
	Backup(destinationPath string) error

	// Restore replaces the current planning data with data from the
	// specified source path. This operation may be destructive to current
	// data.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks
	// or database connections. It should be called when the store is no
	// longer needed.
	Close() error
}
