package tasks

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned, wrapped in a *NotFoundError, when no task has
// the requested ID.
var ErrNotFound = errors.New("task not found")

// NotFoundError reports a missing task ID.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task found with ID: %d", e.ID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StorageError reports a task file that could not be read, decoded, or
// written.
type StorageError struct {
	Op   string // load, save, validate
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. [2].status
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
