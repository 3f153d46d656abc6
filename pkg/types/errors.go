// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrPoolClosed indicates the pool has been shut down
	ErrPoolClosed = errors.New("pool is closed")

	// ErrNoWorkers indicates the pool has no live workers to assign to
	ErrNoWorkers = errors.New("pool has no workers")

	// ErrTaskCancelled indicates a queued task was dropped unexecuted at shutdown
	ErrTaskCancelled = errors.New("task cancelled before execution")
)

// TaskPanicError wraps a panic raised inside a submitted callable.
// The original panic value and the goroutine stack at recovery time are
// preserved so the submitter sees what actually went wrong, not a generic
// failure.
type TaskPanicError struct {
	// TaskID is the internal id of the panicking task
	TaskID string

	// Value is the value passed to panic
	Value interface{}

	// Stack is the worker goroutine stack captured at recovery
	Stack string
}

// Error implements the error interface
func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Value)
}

// Unwrap returns the panic value when it was itself an error
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewTaskPanicError creates a new panic error for a task
func NewTaskPanicError(taskID string, value interface{}, stack string) *TaskPanicError {
	return &TaskPanicError{
		TaskID: taskID,
		Value:  value,
		Stack:  stack,
	}
}

// IsCancelled reports whether err resolves to a shutdown cancellation
func IsCancelled(err error) bool {
	return errors.Is(err, ErrTaskCancelled)
}
