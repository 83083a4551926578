package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/types"
	_ "modernc.org/sqlite"
)

const defaultDBFile = "planning.db"

// SQLitePlanningStore implements the PlanningStore interface using SQLite
// with WAL mode. Goals, plans, and todos live in separate tables; todo
// insertion order is kept in an explicit position column.
type SQLitePlanningStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewSQLitePlanningStore creates a new instance of SQLitePlanningStore.
// It does not open the database; Initialize must be called separately.
func NewSQLitePlanningStore() *SQLitePlanningStore {
	return &SQLitePlanningStore{}
}

// Initialize configures the SQLitePlanningStore. It expects a 'dataFile' key
// in the config map specifying the database path, defaulting to
// 'planning.db' in the current working directory. The 'dataFileFormat' key
// is ignored for this backend.
func (s *SQLitePlanningStore) Initialize(config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if val, ok := config[dataFileKey]; ok && val != "" {
		s.dbPath = val
	} else {
		s.dbPath = defaultDBFile
	}

	dir := filepath.Dir(s.dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return s.open()
}

// open opens the database, applies the PRAGMAs, and ensures the schema.
// The caller must hold s.mu.
func (s *SQLitePlanningStore) open() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %s: %w", s.dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to exec %q: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	s.db = db
	return nil
}

func ensureSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS goals (
		id          TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		goal_id    TEXT PRIMARY KEY REFERENCES goals(id) ON DELETE CASCADE,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS todos (
		id           TEXT PRIMARY KEY,
		goal_id      TEXT NOT NULL REFERENCES plans(goal_id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		complexity   INTEGER NOT NULL DEFAULT 5,
		code_example TEXT NOT NULL DEFAULT '',
		is_complete  INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_todos_goal_position ON todos(goal_id, position);
	`
	_, err := db.Exec(schema)
	return err
}

// rowQuerier abstracts *sql.DB and *sql.Tx for single-row lookups.
type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func goalExists(q rowQuerier, goalID string) (bool, error) {
	var one int
	err := q.QueryRow("SELECT 1 FROM goals WHERE id = ?", goalID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func planUpdatedAt(q rowQuerier, goalID string) (time.Time, bool, error) {
	var raw string
	err := q.QueryRow("SELECT updated_at FROM plans WHERE goal_id = ?", goalID).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, raw)
	return updatedAt, true, nil
}

// scanTodo builds a todo from a row scan. It centralizes the timestamp
// parsing shared by every todo query.
func scanTodo(scan func(dest ...any) error) (models.Todo, error) {
	var todo models.Todo
	var createdAt, updatedAt string
	if err := scan(&todo.ID, &todo.Title, &todo.Description, &todo.Complexity,
		&todo.CodeExample, &todo.IsComplete, &createdAt, &updatedAt); err != nil {
		return models.Todo{}, err
	}
	todo.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	todo.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return todo, nil
}

const todoColumns = "id, title, description, complexity, code_example, is_complete, created_at, updated_at"

func queryTodos(db *sql.DB, goalID string) ([]models.Todo, error) {
	rows, err := db.Query(
		"SELECT "+todoColumns+" FROM todos WHERE goal_id = ? ORDER BY position", goalID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// CreateGoal adds a new goal built from the given description.
func (s *SQLitePlanningStore) CreateGoal(description string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := models.NewGoal(description)
	if err != nil {
		return models.Goal{}, err
	}
	if err := models.ValidateStruct(goal); err != nil {
		return models.Goal{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO goals (id, description, created_at) VALUES (?, ?, ?)
	`, goal.ID, goal.Description, goal.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return models.Goal{}, types.NewStorageError("insert goal", err)
	}

	return goal, nil
}

// GetGoal retrieves a goal by its unique identifier.
func (s *SQLitePlanningStore) GetGoal(goalID string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var goal models.Goal
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, description, created_at FROM goals WHERE id = ?
	`, goalID).Scan(&goal.ID, &goal.Description, &createdAt)
	if err == sql.ErrNoRows {
		return models.Goal{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if err != nil {
		return models.Goal{}, types.NewStorageError("query goal", err)
	}
	goal.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return goal, nil
}

// CreatePlan creates an empty plan attached to the given goal. An existing
// plan is never replaced.
func (s *SQLitePlanningStore) CreatePlan(goalID string) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return models.Plan{}, types.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := goalExists(tx, goalID)
	if err != nil {
		return models.Plan{}, types.NewStorageError("check goal", err)
	}
	if !exists {
		return models.Plan{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, hasPlan, err := planUpdatedAt(tx, goalID); err != nil {
		return models.Plan{}, types.NewStorageError("check plan", err)
	} else if hasPlan {
		return models.Plan{}, types.NewAlreadyExistsError("plan for goal %s already exists", goalID)
	}

	plan := models.NewPlan(goalID)
	if _, err := tx.Exec(`
		INSERT INTO plans (goal_id, updated_at) VALUES (?, ?)
	`, plan.GoalID, plan.UpdatedAt.Format(time.RFC3339Nano)); err != nil {
		return models.Plan{}, types.NewStorageError("insert plan", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Plan{}, types.NewStorageError("commit create plan", err)
	}
	return plan, nil
}

// GetPlan retrieves the plan for a goal, including its todos in insertion order.
func (s *SQLitePlanningStore) GetPlan(goalID string) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := goalExists(s.db, goalID)
	if err != nil {
		return models.Plan{}, types.NewStorageError("check goal", err)
	}
	if !exists {
		return models.Plan{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}

	updatedAt, hasPlan, err := planUpdatedAt(s.db, goalID)
	if err != nil {
		return models.Plan{}, types.NewStorageError("check plan", err)
	}
	if !hasPlan {
		return models.Plan{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	todos, err := queryTodos(s.db, goalID)
	if err != nil {
		return models.Plan{}, types.NewStorageError("query todos", err)
	}

	return models.Plan{GoalID: goalID, Todos: todos, UpdatedAt: updatedAt}, nil
}

// AddTodo appends a todo built from the given fields to the goal's plan.
func (s *SQLitePlanningStore) AddTodo(goalID string, fields models.TodoFields) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, err := models.NewTodo(fields)
	if err != nil {
		return models.Todo{}, err
	}
	if err := models.ValidateStruct(todo); err != nil {
		return models.Todo{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Todo{}, types.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := goalExists(tx, goalID)
	if err != nil {
		return models.Todo{}, types.NewStorageError("check goal", err)
	}
	if !exists {
		return models.Todo{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, hasPlan, err := planUpdatedAt(tx, goalID); err != nil {
		return models.Todo{}, types.NewStorageError("check plan", err)
	} else if !hasPlan {
		return models.Todo{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	var position int
	if err := tx.QueryRow(
		"SELECT COALESCE(MAX(position), -1) + 1 FROM todos WHERE goal_id = ?", goalID).Scan(&position); err != nil {
		return models.Todo{}, types.NewStorageError("compute todo position", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO todos (id, goal_id, position, title, description, complexity, code_example, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, todo.ID, goalID, position, todo.Title, todo.Description, todo.Complexity, todo.CodeExample,
		todo.IsComplete, todo.CreatedAt.Format(time.RFC3339Nano), todo.UpdatedAt.Format(time.RFC3339Nano)); err != nil {
		return models.Todo{}, types.NewStorageError("insert todo", err)
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		UPDATE plans SET updated_at = ? WHERE goal_id = ?
	`, now.Format(time.RFC3339Nano), goalID); err != nil {
		return models.Todo{}, types.NewStorageError("refresh plan timestamp", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Todo{}, types.NewStorageError("commit add todo", err)
	}
	return todo, nil
}

// RemoveTodo deletes a todo from the goal's plan by its identifier.
func (s *SQLitePlanningStore) RemoveTodo(goalID, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return types.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := goalExists(tx, goalID)
	if err != nil {
		return types.NewStorageError("check goal", err)
	}
	if !exists {
		return types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, hasPlan, err := planUpdatedAt(tx, goalID); err != nil {
		return types.NewStorageError("check plan", err)
	} else if !hasPlan {
		return types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	result, err := tx.Exec("DELETE FROM todos WHERE goal_id = ? AND id = ?", goalID, todoID)
	if err != nil {
		return types.NewStorageError("delete todo", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return types.NewNotFoundError("todo with ID %s not found in plan for goal %s", todoID, goalID)
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		UPDATE plans SET updated_at = ? WHERE goal_id = ?
	`, now.Format(time.RFC3339Nano), goalID); err != nil {
		return types.NewStorageError("refresh plan timestamp", err)
	}

	if err := tx.Commit(); err != nil {
		return types.NewStorageError("commit remove todo", err)
	}
	return nil
}

// GetTodos returns the goal's todos in insertion order.
func (s *SQLitePlanningStore) GetTodos(goalID string) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := goalExists(s.db, goalID)
	if err != nil {
		return nil, types.NewStorageError("check goal", err)
	}
	if !exists {
		return nil, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, hasPlan, err := planUpdatedAt(s.db, goalID); err != nil {
		return nil, types.NewStorageError("check plan", err)
	} else if !hasPlan {
		return nil, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	todos, err := queryTodos(s.db, goalID)
	if err != nil {
		return nil, types.NewStorageError("query todos", err)
	}
	return todos, nil
}

// UpdateTodoStatus sets a todo's completion flag and refreshes the updated
// timestamps of both the todo and its plan.
func (s *SQLitePlanningStore) UpdateTodoStatus(goalID, todoID string, isComplete bool) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return models.Todo{}, types.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := goalExists(tx, goalID)
	if err != nil {
		return models.Todo{}, types.NewStorageError("check goal", err)
	}
	if !exists {
		return models.Todo{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, hasPlan, err := planUpdatedAt(tx, goalID); err != nil {
		return models.Todo{}, types.NewStorageError("check plan", err)
	} else if !hasPlan {
		return models.Todo{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	todo, err := scanTodo(tx.QueryRow(
		"SELECT "+todoColumns+" FROM todos WHERE goal_id = ? AND id = ?", goalID, todoID).Scan)
	if err == sql.ErrNoRows {
		return models.Todo{}, types.NewNotFoundError("todo with ID %s not found in plan for goal %s", todoID, goalID)
	}
	if err != nil {
		return models.Todo{}, types.NewStorageError("query todo", err)
	}

	todo.IsComplete = isComplete
	todo.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(`
		UPDATE todos SET is_complete = ?, updated_at = ? WHERE goal_id = ? AND id = ?
	`, todo.IsComplete, todo.UpdatedAt.Format(time.RFC3339Nano), goalID, todoID); err != nil {
		return models.Todo{}, types.NewStorageError("update todo status", err)
	}
	if _, err := tx.Exec(`
		UPDATE plans SET updated_at = ? WHERE goal_id = ?
	`, todo.UpdatedAt.Format(time.RFC3339Nano), goalID); err != nil {
		return models.Todo{}, types.NewStorageError("refresh plan timestamp", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Todo{}, types.NewStorageError("commit update todo status", err)
	}
	return todo, nil
}

// Backup writes a consistent snapshot of the database to the destination
// path using VACUUM INTO. Any existing file at the destination is replaced.
func (s *SQLitePlanningStore) Backup(destinationPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.Remove(destinationPath) // VACUUM INTO refuses to overwrite
	if _, err := s.db.Exec("VACUUM INTO ?", destinationPath); err != nil {
		return types.NewStorageError("vacuum into backup", err)
	}
	return nil
}

// Restore replaces the current database with the contents of the source
// path. The connection is reopened against the restored file.
func (s *SQLitePlanningStore) Restore(sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return types.NewStorageError("read source backup file", err)
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return types.NewStorageError("close database before restore", err)
		}
		s.db = nil
	}

	tempFilePath := s.dbPath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return types.NewStorageError("write restored data to temporary file", err)
	}
	if err = os.Rename(tempFilePath, s.dbPath); err != nil {
		return types.NewStorageError("replace database with restored data", err)
	}

	// Stale WAL sidecars from the previous database must not be replayed
	// over the restored file.
	_ = os.Remove(s.dbPath + "-wal")
	_ = os.Remove(s.dbPath + "-shm")

	if err := s.open(); err != nil {
		return types.NewStorageError("reopen database after restore", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLitePlanningStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
