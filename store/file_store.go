package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/types"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "planning.json" // Default filename if only format implies extension
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// planningFile is the on-disk document: every goal plus every plan, each
// plan carrying its ordered todos.
type planningFile struct {
	Goals []models.Goal `json:"goals"`
	Plans []models.Plan `json:"plans"`
}

// FilePlanningStore implements the PlanningStore interface using a file backend.
// It supports JSON, YAML, and TOML formats and uses file-level locking.
type FilePlanningStore struct {
	filePath string
	goals    map[string]models.Goal
	plans    map[string]models.Plan // keyed by goal ID
	// mu serializes goroutines within this process; flk guards the file
	// against other processes. flock alone does not block a second Lock
	// from the same process.
	mu     sync.Mutex
	flk    *flock.Flock
	format string // Stores the data format: "json", "yaml", or "toml"
}

// NewFilePlanningStore creates a new instance of FilePlanningStore.
// It does not initialize the store; Initialize must be called separately.
func NewFilePlanningStore() *FilePlanningStore {
	return &FilePlanningStore{
		goals: make(map[string]models.Goal),
		plans: make(map[string]models.Plan),
	}
}

// Initialize configures the FilePlanningStore.
// It expects a 'dataFile' key in the config map specifying the path to the data file.
// If not provided, it defaults to 'planning.json' in the current working directory.
// It loads existing data from the file if it exists and establishes a file lock.
func (s *FilePlanningStore) Initialize(config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	// If filePath was the default and format is not JSON, adjust the default
	// extension. Users providing a full filePath are responsible for its extension.
	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	// Ensure the directory for the file path exists
	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath) // flock uses the file path itself for locking

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		// Another process holds the lock; block until initialization can complete.
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.goals = make(map[string]models.Goal)
	s.plans = make(map[string]models.Plan)
	return s.loadFromFileInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadFromFileInternal reads the planning document from the file, verifies
// its checksum, and unmarshals it. The caller must hold the locks.
func (s *FilePlanningStore) loadFromFileInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.goals = make(map[string]models.Goal)
			s.plans = make(map[string]models.Plan)
			// If the data file doesn't exist, the checksum file shouldn't either.
			_ = os.Remove(checksumFilePath)
			if f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			} else {
				_ = f.Close()
			}
			// Create an empty checksum file for a new empty data file
			if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				// Non-critical; the next save will attempt to create it.
				fmt.Fprintf(os.Stderr, "Warning: could not write initial checksum file %s: %v\n", checksumFilePath, err)
			}
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	// Verify checksum if checksum file exists
	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w - data file might be corrupt or tampered", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)

		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}
	// If the checksum file does not exist but the data file does, the data
	// predates checksums. Load it; the next save will create a checksum.

	if len(data) == 0 {
		currentChecksum := calculateChecksum([]byte{})
		_ = os.WriteFile(checksumFilePath, []byte(currentChecksum), 0o644) // best effort
		s.goals = make(map[string]models.Goal)
		s.plans = make(map[string]models.Plan)
		return nil
	}

	var doc planningFile
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s (checksum may have passed): %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s (checksum may have passed): %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s (checksum may have passed): %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.goals = make(map[string]models.Goal, len(doc.Goals))
	for _, goal := range doc.Goals {
		s.goals[goal.ID] = goal
	}
	s.plans = make(map[string]models.Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		s.plans[plan.GoalID] = plan
	}
	return nil
}

// saveToFileInternal writes the planning document to file, then writes its
// checksum. The caller must hold the locks.
func (s *FilePlanningStore) saveToFileInternal() error {
	doc := planningFile{
		Goals: make([]models.Goal, 0, len(s.goals)),
		Plans: make([]models.Plan, 0, len(s.plans)),
	}
	for _, goal := range s.goals {
		doc.Goals = append(doc.Goals, goal)
	}
	for _, plan := range s.plans {
		doc.Plans = append(doc.Plans, plan)
	}
	sort.Slice(doc.Goals, func(i, j int) bool {
		if doc.Goals[i].CreatedAt.Equal(doc.Goals[j].CreatedAt) {
			return doc.Goals[i].ID < doc.Goals[j].ID
		}
		return doc.Goals[i].CreatedAt.Before(doc.Goals[j].CreatedAt)
	})
	sort.Slice(doc.Plans, func(i, j int) bool {
		return doc.Plans[i].GoalID < doc.Plans[j].GoalID
	})

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(doc, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(doc)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(doc); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal planning data to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	// Data file written to temp, now calculate its checksum
	actualChecksum := calculateChecksum(marshaledData)
	if err := os.WriteFile(tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	// Atomically move data file and then checksum file
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s from %s: %w - store may be inconsistent", s.filePath, checksumFilePath, tempChecksumFilePath, err)
	}

	return nil
}

// CreateGoal adds a new goal built from the given description.
func (s *FilePlanningStore) CreateGoal(description string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Goal{}, types.NewStorageError("lock data file for create goal", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	// Reload state from disk so we work with the latest version even when
	// another process wrote the file between operations.
	if err := s.loadFromFileInternal(); err != nil {
		return models.Goal{}, types.NewStorageError("reload before create goal", err)
	}

	goal, err := models.NewGoal(description)
	if err != nil {
		return models.Goal{}, err
	}
	if err := models.ValidateStruct(goal); err != nil {
		return models.Goal{}, err
	}

	s.goals[goal.ID] = goal

	if err := s.saveToFileInternal(); err != nil {
		// Best-effort rollback: reload from the unchanged file.
		_ = s.loadFromFileInternal()
		return models.Goal{}, types.NewStorageError("save new goal", err)
	}

	return goal, nil
}

// GetGoal retrieves a goal by its unique identifier.
func (s *FilePlanningStore) GetGoal(goalID string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Goal{}, types.NewStorageError("lock data file for get goal", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.Goal{}, types.NewStorageError("load for get goal", err)
	}

	goal, ok := s.goals[goalID]
	if !ok {
		return models.Goal{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	return goal, nil
}

// CreatePlan creates an empty plan attached to the given goal. An existing
// plan is never replaced.
func (s *FilePlanningStore) CreatePlan(goalID string) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Plan{}, types.NewStorageError("lock data file for create plan", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.Plan{}, types.NewStorageError("reload before create plan", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return models.Plan{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	if _, exists := s.plans[goalID]; exists {
		return models.Plan{}, types.NewAlreadyExistsError("plan for goal %s already exists", goalID)
	}

	plan := models.NewPlan(goalID)
	if err := models.ValidateStruct(plan); err != nil {
		return models.Plan{}, err
	}

	s.plans[goalID] = plan

	if err := s.saveToFileInternal(); err != nil {
		_ = s.loadFromFileInternal()
		return models.Plan{}, types.NewStorageError("save new plan", err)
	}

	return plan, nil
}

// GetPlan retrieves the plan for a goal, including its todos in insertion order.
func (s *FilePlanningStore) GetPlan(goalID string) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Plan{}, types.NewStorageError("lock data file for get plan", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.Plan{}, types.NewStorageError("load for get plan", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return models.Plan{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	plan, ok := s.plans[goalID]
	if !ok {
		return models.Plan{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}
	if plan.Todos == nil {
		plan.Todos = []models.Todo{}
	}
	return plan, nil
}

// AddTodo appends a todo built from the given fields to the goal's plan.
func (s *FilePlanningStore) AddTodo(goalID string, fields models.TodoFields) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Todo{}, types.NewStorageError("lock data file for add todo", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.Todo{}, types.NewStorageError("reload before add todo", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return models.Todo{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	plan, ok := s.plans[goalID]
	if !ok {
		return models.Todo{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	todo, err := models.NewTodo(fields)
	if err != nil {
		return models.Todo{}, err
	}
	if err := models.ValidateStruct(todo); err != nil {
		return models.Todo{}, err
	}

	plan.Todos = append(plan.Todos, todo)
	plan.UpdatedAt = time.Now().UTC()
	s.plans[goalID] = plan

	if err := s.saveToFileInternal(); err != nil {
		_ = s.loadFromFileInternal()
		return models.Todo{}, types.NewStorageError("save added todo", err)
	}

	return todo, nil
}

// RemoveTodo deletes a todo from the goal's plan by its identifier.
func (s *FilePlanningStore) RemoveTodo(goalID, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return types.NewStorageError("lock data file for remove todo", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return types.NewStorageError("reload before remove todo", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	plan, ok := s.plans[goalID]
	if !ok {
		return types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	index := -1
	for i, todo := range plan.Todos {
		if todo.ID == todoID {
			index = i
			break
		}
	}
	if index == -1 {
		return types.NewNotFoundError("todo with ID %s not found in plan for goal %s", todoID, goalID)
	}

	plan.Todos = append(plan.Todos[:index], plan.Todos[index+1:]...)
	plan.UpdatedAt = time.Now().UTC()
	s.plans[goalID] = plan

	if err := s.saveToFileInternal(); err != nil {
		_ = s.loadFromFileInternal()
		return types.NewStorageError("save after remove todo", err)
	}

	return nil
}

// GetTodos returns the goal's todos in insertion order.
func (s *FilePlanningStore) GetTodos(goalID string) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return nil, types.NewStorageError("lock data file for get todos", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return nil, types.NewStorageError("load for get todos", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return nil, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	plan, ok := s.plans[goalID]
	if !ok {
		return nil, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	todos := make([]models.Todo, len(plan.Todos))
	copy(todos, plan.Todos)
	return todos, nil
}

// UpdateTodoStatus sets a todo's completion flag and refreshes the updated
// timestamps of both the todo and its plan.
func (s *FilePlanningStore) UpdateTodoStatus(goalID, todoID string, isComplete bool) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return models.Todo{}, types.NewStorageError("lock data file for update todo status", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadFromFileInternal(); err != nil {
		return models.Todo{}, types.NewStorageError("reload before update todo status", err)
	}

	if _, ok := s.goals[goalID]; !ok {
		return models.Todo{}, types.NewNotFoundError("goal with ID %s not found", goalID)
	}
	plan, ok := s.plans[goalID]
	if !ok {
		return models.Todo{}, types.NewNotFoundError("no plan exists for goal %s", goalID)
	}

	index := -1
	for i, todo := range plan.Todos {
		if todo.ID == todoID {
			index = i
			break
		}
	}
	if index == -1 {
		return models.Todo{}, types.NewNotFoundError("todo with ID %s not found in plan for goal %s", todoID, goalID)
	}

	todo := plan.Todos[index]
	todo.IsComplete = isComplete
	todo.UpdatedAt = time.Now().UTC()
	plan.Todos[index] = todo
	plan.UpdatedAt = todo.UpdatedAt
	s.plans[goalID] = plan

	if err := s.saveToFileInternal(); err != nil {
		_ = s.loadFromFileInternal()
		return models.Todo{}, types.NewStorageError("save updated todo status", err)
	}

	return todo, nil
}

// Backup creates a backup of the current planning data to the specified destination path.
func (s *FilePlanningStore) Backup(destinationPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return types.NewStorageError("lock data file for backup", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return types.NewStorageError("read source file for backup", err)
	}

	if err = os.WriteFile(destinationPath, input, 0o644); err != nil {
		return types.NewStorageError("write backup file", err)
	}
	// The .checksum sidecar is not copied; a restored file gets a fresh
	// checksum on its next save.
	return nil
}

// Restore replaces the current planning data with data from the specified
// source path. It removes any existing checksum file for the main data path;
// a new checksum is generated on the next save.
func (s *FilePlanningStore) Restore(sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flk.Lock(); err != nil {
		return types.NewStorageError("lock data file for restore", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return types.NewStorageError("read source backup file", err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return types.NewStorageError("write restored data to temporary file", err)
	}

	if err = os.Rename(tempFilePath, s.filePath); err != nil {
		return types.NewStorageError("replace data file with restored data", err)
	}

	checksumFilePath := s.filePath + checksumSuffix
	_ = os.Remove(checksumFilePath) // Best effort removal

	if err := s.loadFromFileInternal(); err != nil {
		return types.NewStorageError("reload after restore", err)
	}
	return nil
}

// Close releases any resources held by the store, such as file locks.
// flock.Unlock() is idempotent and can be called even if the lock is not
// held by this process.
func (s *FilePlanningStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
