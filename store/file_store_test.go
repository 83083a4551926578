package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/types"
)

func setupFileStore(t *testing.T) *FilePlanningStore {
	t.Helper()
	return setupFileStoreAt(t, filepath.Join(t.TempDir(), "planning.json"), "json")
}

func setupFileStoreAt(t *testing.T, filePath, format string) *FilePlanningStore {
	t.Helper()

	store := NewFilePlanningStore()
	config := map[string]string{
		"dataFile":       filePath,
		"dataFileFormat": format,
	}

	if err := store.Initialize(config); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}

	return store
}

func TestFilePlanningStore_Formats(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			filePath := filepath.Join(t.TempDir(), "planning."+format)
			store := setupFileStoreAt(t, filePath, format)

			goal := mustCreateGoalWithPlan(t, store, "Support "+format+" format")
			todo := mustAddTodo(t, store, goal.ID, "Round trip the data")
			if err := store.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			// A fresh store on the same file must see the same state.
			reopened := setupFileStoreAt(t, filePath, format)
			defer func() { _ = reopened.Close() }()

			loaded, err := reopened.GetGoal(goal.ID)
			if err != nil {
				t.Fatalf("GetGoal after reopen failed: %v", err)
			}
			if loaded.Description != goal.Description {
				t.Errorf("Description mismatch: got %q, want %q", loaded.Description, goal.Description)
			}
			if !loaded.CreatedAt.Equal(goal.CreatedAt) {
				t.Errorf("CreatedAt mismatch: got %v, want %v", loaded.CreatedAt, goal.CreatedAt)
			}

			todos, err := reopened.GetTodos(goal.ID)
			if err != nil {
				t.Fatalf("GetTodos after reopen failed: %v", err)
			}
			if len(todos) != 1 {
				t.Fatalf("Expected 1 todo, got %d", len(todos))
			}
			if todos[0].ID != todo.ID || todos[0].Title != todo.Title {
				t.Errorf("Todo mismatch: got %+v, want %+v", todos[0], todo)
			}
		})
	}
}

func TestFilePlanningStore_UnsupportedFormat(t *testing.T) {
	store := NewFilePlanningStore()
	err := store.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "planning.xml"),
		"dataFileFormat": "xml",
	})
	if err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported dataFileFormat") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFilePlanningStore_ChecksumTamper(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "planning.json")
	store := setupFileStoreAt(t, filePath, "json")

	mustCreateGoalWithPlan(t, store, "Detect tampering")
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Edit the data file behind the store's back; the checksum sidecar
	// still describes the old bytes.
	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	tampered := strings.Replace(string(data), "Detect tampering", "Something else", 1)
	if tampered == string(data) {
		t.Fatal("Tamper replacement did not change the file")
	}
	if err := os.WriteFile(filePath, []byte(tampered), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reopened := NewFilePlanningStore()
	err = reopened.Initialize(map[string]string{"dataFile": filePath, "dataFileFormat": "json"})
	if err == nil {
		t.Fatal("Expected checksum mismatch on initialize")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Unexpected error: %v", err)
	}

	// Operations on an already-open store hit the same verification because
	// every call reloads from disk.
	open := setupFileStoreAt(t, filepath.Join(t.TempDir(), "planning.json"), "json")
	defer func() { _ = open.Close() }()
	openGoal := mustCreateGoalWithPlan(t, open, "Detect tampering while open")
	raw, err := os.ReadFile(open.filePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(open.filePath, append(raw, '\n'), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := open.GetGoal(openGoal.ID); !errors.Is(err, types.ErrStorage) {
		t.Errorf("GetGoal on tampered file: got %v, want storage error", err)
	}
}

func TestFilePlanningStore_ConcurrentAddAndRemove(t *testing.T) {
	store := setupFileStore(t)
	defer func() { _ = store.Close() }()

	goal := mustCreateGoalWithPlan(t, store, "Survive concurrent edits")

	const workers = 5
	const perWorker = 8

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := store.AddTodo(goal.ID, models.TodoFields{
					Title:       fmt.Sprintf("todo-%d-%d", w, i),
					Description: "concurrent insert",
					Complexity:  5,
				})
				if err != nil {
					t.Errorf("AddTodo failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	todos, err := store.GetTodos(goal.ID)
	if err != nil {
		t.Fatalf("GetTodos failed: %v", err)
	}
	if len(todos) != workers*perWorker {
		t.Fatalf("Expected %d todos, got %d", workers*perWorker, len(todos))
	}
	seen := make(map[string]bool, len(todos))
	for _, todo := range todos {
		if seen[todo.ID] {
			t.Errorf("Duplicate todo ID %s", todo.ID)
		}
		seen[todo.ID] = true
	}

	// Concurrent removals of distinct todos must each succeed exactly once.
	toRemove := todos[:workers]
	var rg sync.WaitGroup
	for _, todo := range toRemove {
		rg.Add(1)
		go func(id string) {
			defer rg.Done()
			if err := store.RemoveTodo(goal.ID, id); err != nil {
				t.Errorf("RemoveTodo failed: %v", err)
			}
		}(todo.ID)
	}
	rg.Wait()

	remaining, err := store.GetTodos(goal.ID)
	if err != nil {
		t.Fatalf("GetTodos after removals failed: %v", err)
	}
	if len(remaining) != workers*perWorker-workers {
		t.Errorf("Expected %d todos after removals, got %d", workers*perWorker-workers, len(remaining))
	}
	for _, todo := range remaining {
		for _, removed := range toRemove {
			if todo.ID == removed.ID {
				t.Errorf("Removed todo %s still present", todo.ID)
			}
		}
	}
}

func TestFilePlanningStore_DefaultPathUsesFormatExtension(t *testing.T) {
	store := NewFilePlanningStore()
	tempDir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	if err := store.Initialize(map[string]string{"dataFileFormat": "yaml"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.filePath != "planning.yaml" {
		t.Errorf("Default path: got %q, want %q", store.filePath, "planning.yaml")
	}
}
