package domain

import "fmt"

// TaskNotFoundError indicates no task matches the given identifier.
type TaskNotFoundError struct {
	GUID string
}

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: guid=%q", e.GUID)
}

// AmbiguousTaskIDError indicates a short identifier matched several tasks.
type AmbiguousTaskIDError struct {
	Prefix  string
	Matches int
}

// Error implements the error interface.
func (e *AmbiguousTaskIDError) Error() string {
	return fmt.Sprintf("task id %q is ambiguous: %d matches", e.Prefix, e.Matches)
}

// InvalidTaskError indicates a task field failed validation.
type InvalidTaskError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.Field, e.Reason)
}
