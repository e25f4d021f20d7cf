// Package actions is the boundary between raw user input and the task store.
//
// Every operation returns a Result instead of an error so callers such as the
// web handlers and the RPC server can render outcomes without inspecting error
// chains themselves.
package actions

import (
	"errors"

	"github.com/amonks/tasklab/task"
)

// Kind classifies a failed Result.
type Kind string

const (
	// KindValidation means the input was rejected; Errors lists each field.
	KindValidation Kind = "validation"

	// KindNotFound means the referenced task does not exist.
	KindNotFound Kind = "not_found"

	// KindInternal means the operation failed for a reason the caller cannot fix.
	KindInternal Kind = "internal"
)

// User-facing messages.
const (
	MessageCreated  = "Task created"
	MessageUpdated  = "Task updated"
	MessageDeleted  = "Task deleted"
	MessageInvalid  = "Invalid input"
	MessageNotFound = "Task not found"
	MessageInternal = "Internal server error"
)

// FieldID is the error key used when an ID argument is rejected.
const FieldID = "id"

// Result is the outcome of an action.
type Result[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data,omitzero"`
	Errors  map[string]string `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
	Kind    Kind              `json:"kind,omitempty"`
}

// Err rebuilds a typed error from a failed result, or returns nil on success.
// Validation results yield *task.ValidationError; not-found results wrap
// task.ErrTaskNotFound.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	switch r.Kind {
	case KindValidation:
		return task.NewValidationError(r.Errors)
	case KindNotFound:
		return &NotFoundError{Message: r.Message}
	default:
		return &InternalError{Message: r.Message}
	}
}

// NotFoundError is a not-found outcome that crossed a process boundary.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return MessageNotFound
	}
	return e.Message
}

// Unwrap lets errors.Is match task.ErrTaskNotFound.
func (e *NotFoundError) Unwrap() error {
	return task.ErrTaskNotFound
}

// InternalError is an internal failure that crossed a process boundary.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	if e.Message == "" {
		return MessageInternal
	}
	return e.Message
}

// IsInternal reports whether err is an internal failure.
func IsInternal(err error) bool {
	var internal *InternalError
	return errors.As(err, &internal)
}
