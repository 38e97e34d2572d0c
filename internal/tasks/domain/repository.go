package domain

import "github.com/zjrosen/deadlines/internal/calendar"

// ListFilter narrows TaskRepository.List. Zero values mean "no constraint".
type ListFilter struct {
	// DueFrom and DueTo bound the deadline, inclusive.
	DueFrom     calendar.Instant
	DueTo       calendar.Instant
	IncludeDone bool
	Tag         string
	Limit       int
}

// TaskRepository persists tasks.
type TaskRepository interface {
	// Save inserts a task with ID 0 and sets its ID, or updates an existing one.
	Save(task *Task) error

	// FindByGUID returns TaskNotFoundError when no task matches.
	FindByGUID(guid string) (*Task, error)

	// FindByGUIDPrefix returns every task whose GUID starts with prefix.
	FindByGUIDPrefix(prefix string) ([]*Task, error)

	// Delete returns TaskNotFoundError when no task matches.
	Delete(guid string) error

	// List returns tasks ordered by deadline, then name.
	List(filter ListFilter) ([]*Task, error)
}
