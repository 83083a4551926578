// Package session provides the planning state shared by CLI and MCP handlers.
// It tracks the single active goal of a connection and gates every todo
// operation on it, so both surfaces stay thin adapters over the store.
package session

import (
	"errors"
	"sync"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/planner"
	"github.com/planwing/planwing/prompts"
	"github.com/planwing/planwing/store"
	"github.com/planwing/planwing/types"
)

// Session holds the active goal for one connection. All methods are safe for
// concurrent use; persistence is delegated to the store.
type Session struct {
	store    store.PlanningStore
	guidance string

	mu            sync.Mutex
	currentGoalID string
}

// New creates a session bound to the store, serving the built-in planning
// guidance from start_planning.
func New(st store.PlanningStore) *Session {
	return NewWithGuidance(st, prompts.PlanningGuidance)
}

// NewWithGuidance creates a session that serves custom guidance text.
// Use this when the project overrides the prompt on disk.
func NewWithGuidance(st store.PlanningStore, guidance string) *Session {
	return &Session{store: st, guidance: guidance}
}

// StartPlanning creates a goal with an empty plan, makes it the active goal,
// and returns the goal together with the planning guidance for the client.
func (s *Session) StartPlanning(goalDescription string) (models.Goal, string, error) {
	goal, err := s.store.CreateGoal(goalDescription)
	if err != nil {
		return models.Goal{}, "", err
	}
	if _, err := s.store.CreatePlan(goal.ID); err != nil {
		return models.Goal{}, "", err
	}

	s.mu.Lock()
	s.currentGoalID = goal.ID
	s.mu.Unlock()

	return goal, s.guidance, nil
}

// SetCurrentGoal resumes an existing goal as the active one. The goal must
// exist in the store.
func (s *Session) SetCurrentGoal(goalID string) error {
	if _, err := s.store.GetGoal(goalID); err != nil {
		return err
	}

	s.mu.Lock()
	s.currentGoalID = goalID
	s.mu.Unlock()
	return nil
}

// activeGoalID returns the current goal id or a precondition error when no
// planning session has been started.
func (s *Session) activeGoalID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentGoalID == "" {
		return "", types.NewPreconditionError("start a planning session first")
	}
	return s.currentGoalID, nil
}

// CurrentGoal returns the active goal.
func (s *Session) CurrentGoal() (models.Goal, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return models.Goal{}, err
	}
	return s.store.GetGoal(goalID)
}

// CurrentPlan returns the active goal's plan with its todos in order.
func (s *Session) CurrentPlan() (models.Plan, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return models.Plan{}, err
	}
	return s.store.GetPlan(goalID)
}

// SavePlan renders the plan text into todo drafts and appends them to the
// active plan. Drafts the model layer rejects are skipped, not fatal; the
// returned count covers only what was added.
func (s *Session) SavePlan(planText string) (int, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, fields := range planner.RenderPlan(planText) {
		if _, err := s.store.AddTodo(goalID, fields); err != nil {
			if errors.Is(err, types.ErrValidation) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

// AddTodo appends a single todo to the active plan.
func (s *Session) AddTodo(fields models.TodoFields) (models.Todo, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return models.Todo{}, err
	}
	return s.store.AddTodo(goalID, fields)
}

// RemoveTodo removes a todo from the active plan by id.
func (s *Session) RemoveTodo(todoID string) error {
	goalID, err := s.activeGoalID()
	if err != nil {
		return err
	}
	return s.store.RemoveTodo(goalID, todoID)
}

// Todos returns the active plan's todos in insertion order.
func (s *Session) Todos() ([]models.Todo, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return nil, err
	}
	return s.store.GetTodos(goalID)
}

// UpdateTodoStatus flips a todo's completion flag on the active plan.
func (s *Session) UpdateTodoStatus(todoID string, isComplete bool) (models.Todo, error) {
	goalID, err := s.activeGoalID()
	if err != nil {
		return models.Todo{}, err
	}
	return s.store.UpdateTodoStatus(goalID, todoID, isComplete)
}
