/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// Error kinds for planning operations. Callers match with errors.Is.
var (
	// ErrValidation marks malformed caller input (empty title, bad complexity).
	ErrValidation = errors.New("validation failed")
	// ErrPrecondition marks operations that require an active goal when none is set.
	ErrPrecondition = errors.New("no active goal")
	// ErrNotFound marks references to goals, plans, or todos that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks creation of a record that is already present.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStorage marks failures of the underlying persistence medium.
	ErrStorage = errors.New("storage failure")
)

// PlanningError wraps a failure with its kind so transports can map it
// to a stable code while errors.Is still sees the sentinel.
type PlanningError struct {
	Kind error
	Msg  string
}

func (e *PlanningError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *PlanningError) Unwrap() error { return e.Kind }

// NewValidationError reports malformed input.
func NewValidationError(format string, args ...any) error {
	return &PlanningError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NewPreconditionError reports a missing active goal.
func NewPreconditionError(format string, args ...any) error {
	return &PlanningError{Kind: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing goal, plan, or todo.
func NewNotFoundError(format string, args ...any) error {
	return &PlanningError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// NewAlreadyExistsError reports a duplicate record.
func NewAlreadyExistsError(format string, args ...any) error {
	return &PlanningError{Kind: ErrAlreadyExists, Msg: fmt.Sprintf(format, args...)}
}

// NewStorageError wraps a persistence failure, keeping the cause in the message.
func NewStorageError(op string, err error) error {
	return &PlanningError{Kind: ErrStorage, Msg: fmt.Sprintf("%s: %v", op, err)}
}

// MCPError provides structured error information for MCP responses
type MCPError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMCPError creates a new structured MCP error
func NewMCPError(code string, message string, details map[string]interface{}) *MCPError {
	return &MCPError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorCode maps an error to the stable code exposed over MCP.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrPrecondition):
		return "NO_ACTIVE_GOAL"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
