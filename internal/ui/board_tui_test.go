package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/planwing/planwing/models"
)

func testSnapshot(t *testing.T) BoardSnapshot {
	t.Helper()
	goal, err := models.NewGoal("Ship the billing service")
	if err != nil {
		t.Fatalf("NewGoal: %v", err)
	}
	plan := models.NewPlan(goal.ID)
	plan.Todos = []models.Todo{
		makeTodo(t, "Define invoice schema", 4, false),
		makeTodo(t, "Wire payment webhook", 6, true),
	}
	return BoardSnapshot{Goal: goal, Plan: plan}
}

func loadedBoard(t *testing.T, snap BoardSnapshot, toggle BoardToggler) BoardModel {
	t.Helper()
	m := NewBoardModel(func() (BoardSnapshot, error) { return snap, nil }, toggle, nil)
	updated, _ := m.Update(boardLoadedMsg{snap: snap})
	return updated.(BoardModel)
}

func TestBoardModel_View(t *testing.T) {
	snap := testSnapshot(t)
	m := loadedBoard(t, snap, nil)

	view := m.View()

	for _, want := range []string{"PlanWing Board", "synced", "Ship the billing service", "Define invoice schema", "Wire payment webhook", "[q] quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q, got:\n%s", want, view)
		}
	}
}

func TestBoardModel_ViewBeforeLoad(t *testing.T) {
	m := NewBoardModel(func() (BoardSnapshot, error) { return BoardSnapshot{}, nil }, nil, nil)
	m.refreshViewport()

	view := m.View()
	if !strings.Contains(view, "Loading...") {
		t.Errorf("view should show the loading state, got:\n%s", view)
	}
	if strings.Contains(view, "synced") {
		t.Error("sync time should not appear before the first load")
	}
}

func TestBoardModel_LoadError(t *testing.T) {
	m := NewBoardModel(nil, nil, nil)
	updated, _ := m.Update(boardLoadedMsg{err: errors.New("store unreachable")})
	m = updated.(BoardModel)

	if !strings.Contains(m.View(), "store unreachable") {
		t.Error("view should surface the load error")
	}
}

func TestBoardModel_QuitKeys(t *testing.T) {
	m := loadedBoard(t, testSnapshot(t), nil)

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("key %q should produce a command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q should quit, got %T", msg.String(), cmd())
		}
	}
}

func TestBoardModel_RefreshKey(t *testing.T) {
	calls := 0
	snap := testSnapshot(t)
	m := NewBoardModel(func() (BoardSnapshot, error) {
		calls++
		return snap, nil
	}, nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("refresh key should produce a command")
	}

	msg := cmd()
	loaded, ok := msg.(boardLoadedMsg)
	if !ok {
		t.Fatalf("refresh should reload the snapshot, got %T", msg)
	}
	if loaded.err != nil {
		t.Errorf("unexpected load error: %v", loaded.err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestBoardModel_CursorMoves(t *testing.T) {
	m := loadedBoard(t, testSnapshot(t), nil)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}

	updated, _ := m.Update(down)
	m = updated.(BoardModel)
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	// Clamped at the last todo.
	updated, _ = m.Update(down)
	m = updated.(BoardModel)
	if m.cursor != 1 {
		t.Errorf("cursor should clamp at the end, got %d", m.cursor)
	}

	updated, _ = m.Update(up)
	m = updated.(BoardModel)
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}

	updated, _ = m.Update(up)
	m = updated.(BoardModel)
	if m.cursor != 0 {
		t.Errorf("cursor should clamp at the start, got %d", m.cursor)
	}
}

func TestBoardModel_SpaceToggles(t *testing.T) {
	snap := testSnapshot(t)
	var gotID string
	var gotComplete bool
	toggle := func(todoID string, isComplete bool) error {
		gotID = todoID
		gotComplete = isComplete
		return nil
	}
	m := loadedBoard(t, snap, toggle)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("space should produce a toggle command")
	}

	msg := cmd()
	if _, ok := msg.(boardLoadedMsg); !ok {
		t.Fatalf("toggle should reload the snapshot, got %T", msg)
	}
	if gotID != snap.Plan.Todos[0].ID {
		t.Errorf("toggled %q, want the selected todo %q", gotID, snap.Plan.Todos[0].ID)
	}
	if !gotComplete {
		t.Error("a pending todo should toggle to complete")
	}
}

func TestBoardModel_SpaceToggles_DoneTodoReopens(t *testing.T) {
	snap := testSnapshot(t)
	var gotComplete bool
	m := loadedBoard(t, snap, func(_ string, isComplete bool) error {
		gotComplete = isComplete
		return nil
	})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = updated.(BoardModel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("space should produce a toggle command")
	}
	cmd()
	if gotComplete {
		t.Error("a done todo should toggle back to pending")
	}
}

func TestBoardModel_SpaceWithoutTodos(t *testing.T) {
	goal, err := models.NewGoal("Empty start")
	if err != nil {
		t.Fatalf("NewGoal: %v", err)
	}
	snap := BoardSnapshot{Goal: goal, Plan: models.NewPlan(goal.ID)}
	m := loadedBoard(t, snap, func(string, bool) error {
		t.Error("toggle should not run with no todos")
		return nil
	})

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace}); cmd != nil {
		t.Error("space on an empty plan should be a no-op")
	}
}

func TestBoardModel_WindowSize(t *testing.T) {
	m := loadedBoard(t, testSnapshot(t), nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(BoardModel)
	if m.viewport.Height != 30-boardChromeHeight {
		t.Errorf("viewport height = %d, want %d", m.viewport.Height, 30-boardChromeHeight)
	}
	if m.viewport.Width != 98 {
		t.Errorf("viewport width = %d, want 98", m.viewport.Width)
	}

	// Tiny terminals clamp to the minimum instead of going negative.
	updated, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 4})
	m = updated.(BoardModel)
	if m.viewport.Height != boardMinHeight {
		t.Errorf("viewport height = %d, want %d", m.viewport.Height, boardMinHeight)
	}
}

func TestBoardModel_FileChanged(t *testing.T) {
	ch := make(chan struct{}, 1)
	m := NewBoardModel(func() (BoardSnapshot, error) { return testSnapshot(t), nil }, nil, ch)

	_, cmd := m.Update(boardFileChangedMsg{})
	if cmd == nil {
		t.Fatal("file change should trigger a reload command")
	}
}

func TestBoardModel_WaitForChange(t *testing.T) {
	snap := testSnapshot(t)
	load := func() (BoardSnapshot, error) { return snap, nil }

	m := NewBoardModel(load, nil, nil)
	if msg := m.waitForChange(); msg != nil {
		t.Errorf("nil channel should yield no message, got %T", msg)
	}

	ch := make(chan struct{}, 1)
	m = NewBoardModel(load, nil, ch)
	ch <- struct{}{}
	if _, ok := m.waitForChange().(boardFileChangedMsg); !ok {
		t.Error("signal should yield a file change message")
	}

	close(ch)
	if msg := m.waitForChange(); msg != nil {
		t.Errorf("closed channel should yield no message, got %T", msg)
	}
}

func TestBoardModel_EmptyPlan(t *testing.T) {
	goal, err := models.NewGoal("Empty start")
	if err != nil {
		t.Fatalf("NewGoal: %v", err)
	}
	snap := BoardSnapshot{Goal: goal, Plan: models.NewPlan(goal.ID)}
	m := loadedBoard(t, snap, nil)

	if !strings.Contains(m.View(), "No todos yet") {
		t.Error("empty plan should show the getting-started hint")
	}
}

func TestGoalPromptModel(t *testing.T) {
	ti := textinput.New()
	ti.SetValue("Build a CLI for deployments")
	m := goalPromptModel{textInput: ti}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(goalPromptModel)
	if result.value != "Build a CLI for deployments" {
		t.Errorf("value = %q, want the typed description", result.value)
	}
	if result.quit {
		t.Error("enter should not mark the prompt cancelled")
	}
	if cmd == nil {
		t.Fatal("enter should quit the program")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !updated.(goalPromptModel).quit {
		t.Error("esc should mark the prompt cancelled")
	}
}
