package planutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planwing/planwing/models"
)

const (
	// DefaultShortIDLength is the default number of characters for short IDs.
	DefaultShortIDLength = 8
	// MaxAmbiguousCandidates is the max number of candidates to show in an ambiguity error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, DefaultShortIDLength (8) is used.
//
// Examples:
//
//	ShortID("7f3a21c9-44d0-4c6e-9a1b-2f8e5d6c7b8a", 0) → "7f3a21c9"
//	ShortID("7f3a21c9-44d0-4c6e-9a1b-2f8e5d6c7b8a", 13) → "7f3a21c9-44d0"
//	ShortID("short", 20) → "short" (no truncation if shorter)
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveTodoID resolves a todo ID or ID prefix against the given todos.
//
// Resolution rules:
//  1. If idOrPrefix matches a todo ID exactly, return that ID.
//  2. If idOrPrefix is the prefix of exactly one todo ID, return that ID.
//  3. If multiple todos match, return ErrAmbiguousID with candidates.
//  4. If no todos match, return ErrNotFound.
//
// Matching is case-insensitive; UUIDs are conventionally lowercase but users
// paste uppercase hex often enough to tolerate it.
func ResolveTodoID(todos []models.Todo, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("todo ID: %w", ErrNotFound)
	}
	prefix := strings.ToLower(idOrPrefix)

	var candidates []string
	for _, todo := range todos {
		id := strings.ToLower(todo.ID)
		if id == prefix {
			return todo.ID, nil
		}
		if strings.HasPrefix(id, prefix) {
			candidates = append(candidates, todo.ID)
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("todo with prefix %q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := make([]string, 0, MaxAmbiguousCandidates)
		for _, id := range candidates {
			if len(shown) == MaxAmbiguousCandidates {
				break
			}
			shown = append(shown, ShortID(id, 0))
		}
		return "", fmt.Errorf("%w: %q matches %d todos: %v",
			ErrAmbiguousID, idOrPrefix, len(candidates), shown)
	}
}
