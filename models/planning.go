package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/planwing/planwing/types"
)

// Goal is the overarching objective of a planning session.
// Goals are immutable once created; there is no update operation.
type Goal struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Description string    `json:"description" validate:"required"`
	CreatedAt   time.Time `json:"created_at" validate:"required"`
}

// Todo is a single actionable implementation step within a plan.
type Todo struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	Complexity  int       `json:"complexity" validate:"required,min=1,max=10"`
	CodeExample string    `json:"code_example,omitempty"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at" validate:"required"`
	UpdatedAt   time.Time `json:"updated_at" validate:"required"`
}

// Plan is the ordered todo list attached to exactly one goal. A plan is
// created together with its goal and never exists independently. Todo order
// is insertion order and is meaningful.
type Plan struct {
	GoalID    string    `json:"goal_id" validate:"required,uuid4"`
	Todos     []Todo    `json:"todos" validate:"dive"`
	UpdatedAt time.Time `json:"updated_at" validate:"required"`
}

// TodoFields carries caller-supplied todo attributes before identity and
// timestamps are assigned. The plan renderer produces these as drafts.
type TodoFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Complexity  int    `json:"complexity"`
	CodeExample string `json:"code_example,omitempty"`
}

const (
	// MinComplexity and MaxComplexity bound the accepted complexity score.
	MinComplexity = 1
	MaxComplexity = 10
)

// NewGoal allocates an id and creation timestamp for a goal. The description
// is stored as supplied; only blank descriptions are rejected.
func NewGoal(description string) (Goal, error) {
	if strings.TrimSpace(description) == "" {
		return Goal{}, types.NewValidationError("goal description must not be empty")
	}
	return Goal{
		ID:          uuid.NewString(),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewTodo builds a todo from caller-supplied fields, allocating its id and
// timestamps. is_complete starts false; created_at and updated_at start equal.
func NewTodo(fields TodoFields) (Todo, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return Todo{}, types.NewValidationError("todo title must not be empty")
	}
	if strings.TrimSpace(fields.Description) == "" {
		return Todo{}, types.NewValidationError("todo description must not be empty")
	}
	if fields.Complexity < MinComplexity || fields.Complexity > MaxComplexity {
		return Todo{}, types.NewValidationError("todo complexity %d out of range [%d, %d]", fields.Complexity, MinComplexity, MaxComplexity)
	}
	now := time.Now().UTC()
	return Todo{
		ID:          uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Complexity:  fields.Complexity,
		CodeExample: fields.CodeExample,
		IsComplete:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewPlan builds an empty plan for a goal. Ordering of Todos is preserved by
// every store operation that touches it.
func NewPlan(goalID string) Plan {
	return Plan{
		GoalID:    goalID,
		Todos:     []Todo{},
		UpdatedAt: time.Now().UTC(),
	}
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return types.NewValidationError("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
