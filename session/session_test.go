package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/prompts"
	"github.com/planwing/planwing/store"
	"github.com/planwing/planwing/types"
)

func setupSession(t *testing.T) *Session {
	t.Helper()

	st := store.NewFilePlanningStore()
	config := map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "planning.json"),
		"dataFileFormat": "json",
	}
	if err := st.Initialize(config); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return New(st)
}

func TestSession_RequiresActiveGoal(t *testing.T) {
	s := setupSession(t)

	checks := []struct {
		name string
		call func() error
	}{
		{"SavePlan", func() error { _, err := s.SavePlan("## Step\nDo it"); return err }},
		{"AddTodo", func() error {
			_, err := s.AddTodo(models.TodoFields{Title: "t", Description: "d", Complexity: 5})
			return err
		}},
		{"RemoveTodo", func() error { return s.RemoveTodo("some-id") }},
		{"Todos", func() error { _, err := s.Todos(); return err }},
		{"UpdateTodoStatus", func() error { _, err := s.UpdateTodoStatus("some-id", true); return err }},
		{"CurrentGoal", func() error { _, err := s.CurrentGoal(); return err }},
		{"CurrentPlan", func() error { _, err := s.CurrentPlan(); return err }},
	}

	for _, check := range checks {
		if err := check.call(); !errors.Is(err, types.ErrPrecondition) {
			t.Errorf("%s without active goal: got %v, want precondition error", check.name, err)
		}
	}
}

func TestSession_StartPlanning(t *testing.T) {
	s := setupSession(t)

	goal, guidance, err := s.StartPlanning("Build the webhook dispatcher")
	if err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}
	if goal.ID == "" {
		t.Error("Started goal should have an ID")
	}
	if guidance != prompts.PlanningGuidance {
		t.Error("StartPlanning should return the planning guidance")
	}

	current, err := s.CurrentGoal()
	if err != nil {
		t.Fatalf("CurrentGoal failed: %v", err)
	}
	if current.ID != goal.ID {
		t.Errorf("Current goal: got %q, want %q", current.ID, goal.ID)
	}

	plan, err := s.CurrentPlan()
	if err != nil {
		t.Fatalf("CurrentPlan failed: %v", err)
	}
	if plan.GoalID != goal.ID {
		t.Errorf("Plan goal: got %q, want %q", plan.GoalID, goal.ID)
	}
	if plan.Todos == nil || len(plan.Todos) != 0 {
		t.Errorf("Fresh plan should have an empty todo slice, got %v", plan.Todos)
	}

	if _, _, err := s.StartPlanning("   "); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Blank goal: got %v, want validation error", err)
	}
}

func TestSession_StartPlanningSwitchesGoal(t *testing.T) {
	s := setupSession(t)

	first, _, err := s.StartPlanning("First goal")
	if err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}
	if _, err := s.AddTodo(models.TodoFields{Title: "only on first", Description: "d", Complexity: 3}); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	second, _, err := s.StartPlanning("Second goal")
	if err != nil {
		t.Fatalf("Second StartPlanning failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("Goals should be distinct")
	}

	todos, err := s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("New goal should start with no todos, got %d", len(todos))
	}

	// The first goal's plan is untouched, just no longer active.
	if err := s.SetCurrentGoal(first.ID); err != nil {
		t.Fatalf("SetCurrentGoal failed: %v", err)
	}
	todos, err = s.Todos()
	if err != nil {
		t.Fatalf("Todos after switch back failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "only on first" {
		t.Errorf("First goal todos: got %v", todos)
	}
}

func TestSession_SetCurrentGoalUnknown(t *testing.T) {
	s := setupSession(t)

	if err := s.SetCurrentGoal("00000000-0000-4000-8000-000000000000"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("SetCurrentGoal with unknown id: got %v, want not-found error", err)
	}
}

func TestSession_SavePlan(t *testing.T) {
	s := setupSession(t)
	if _, _, err := s.StartPlanning("Parse the plan"); err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}

	count, err := s.SavePlan("## Step 1\nDo X\n```code```\n## Step 2\nDo Y")
	if err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("SavePlan count: got %d, want 2", count)
	}

	todos, err := s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("Expected 2 todos, got %d", len(todos))
	}
	if todos[0].Title != "Step 1" || todos[1].Title != "Step 2" {
		t.Errorf("Titles: got %q, %q", todos[0].Title, todos[1].Title)
	}
	if todos[0].CodeExample != "code" {
		t.Errorf("First todo code example: got %q, want %q", todos[0].CodeExample, "code")
	}
	if todos[0].Complexity != 5 || todos[1].Complexity != 5 {
		t.Errorf("Unannotated steps should default to complexity 5, got %d and %d",
			todos[0].Complexity, todos[1].Complexity)
	}

	// Saving again appends; it never replaces the existing todos.
	count, err = s.SavePlan("## Step 3\nComplexity: 8\nDo Z")
	if err != nil {
		t.Fatalf("Second SavePlan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Second SavePlan count: got %d, want 1", count)
	}
	todos, err = s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 3 || todos[2].Title != "Step 3" || todos[2].Complexity != 8 {
		t.Errorf("Appended todo wrong: got %v", todos)
	}
}

func TestSession_SavePlanTolerant(t *testing.T) {
	s := setupSession(t)
	if _, _, err := s.StartPlanning("Tolerate odd input"); err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}

	// Free text without headings yields no todos and no error.
	count, err := s.SavePlan("just some musing without any structure")
	if err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Unstructured text: got %d todos, want 0", count)
	}

	// A draft the model layer rejects is skipped, the rest still land.
	longTitle := strings.Repeat("x", 300)
	count, err = s.SavePlan("## " + longTitle + "\nToo long to store\n## Short\nFits fine")
	if err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 surviving todo, got %d", count)
	}
	todos, err := s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Short" {
		t.Errorf("Surviving todos: got %v", todos)
	}
}

func TestSession_TodoFlow(t *testing.T) {
	s := setupSession(t)
	if _, _, err := s.StartPlanning("Work the plan"); err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}

	todo, err := s.AddTodo(models.TodoFields{
		Title:       "Wire the handler",
		Description: "Connect the route to the service",
		Complexity:  4,
		CodeExample: "mux.Handle(...)",
	})
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	updated, err := s.UpdateTodoStatus(todo.ID, true)
	if err != nil {
		t.Fatalf("UpdateTodoStatus failed: %v", err)
	}
	if !updated.IsComplete {
		t.Error("Todo should be complete")
	}

	if err := s.RemoveTodo(todo.ID); err != nil {
		t.Fatalf("RemoveTodo failed: %v", err)
	}
	todos, err := s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("Expected no todos after removal, got %d", len(todos))
	}

	if err := s.RemoveTodo(todo.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Removing twice: got %v, want not-found error", err)
	}
}

func TestSession_CustomGuidance(t *testing.T) {
	st := store.NewFilePlanningStore()
	if err := st.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "planning.json"),
		"dataFileFormat": "json",
	}); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() { _ = st.Close() }()

	s := NewWithGuidance(st, "think twice, cut once")
	_, guidance, err := s.StartPlanning("Use the custom prompt")
	if err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}
	if guidance != "think twice, cut once" {
		t.Errorf("Guidance: got %q", guidance)
	}
}

func TestSession_ConcurrentMutations(t *testing.T) {
	s := setupSession(t)
	if _, _, err := s.StartPlanning("Stay consistent under load"); err != nil {
		t.Fatalf("StartPlanning failed: %v", err)
	}

	const workers = 4
	const perWorker = 6

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.AddTodo(models.TodoFields{
					Title:       fmt.Sprintf("todo-%d-%d", w, i),
					Description: "concurrent",
					Complexity:  5,
				})
				if err != nil {
					t.Errorf("AddTodo failed: %v", err)
				}
				if _, err := s.Todos(); err != nil {
					t.Errorf("Todos failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	todos, err := s.Todos()
	if err != nil {
		t.Fatalf("Todos failed: %v", err)
	}
	if len(todos) != workers*perWorker {
		t.Errorf("Expected %d todos, got %d", workers*perWorker, len(todos))
	}
}
