// Package domain implements the domain layer for deadline-tracked tasks.
//
// It contains the Task entity, the due-date windows used to filter tasks,
// the repository port implemented by infrastructure, and typed domain errors.
// Date and week arithmetic is delegated to the calendar package; this package
// has no knowledge of storage or presentation.
//
// # Core Types
//
// Task carries a required name and deadline, an optional start instant that
// turns the task into a closed work span, free-form description and tags.
//
// Window names a due-date range relative to "now" (today, tomorrow, this week,
// next week) plus the unbounded overdue and all filters.
//
// # Import Aliasing
//
// There is also an application package holding the task service. When importing
// both, alias them:
//
//	import (
//	    domaintasks "github.com/zjrosen/deadlines/internal/tasks/domain"
//	    apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
//	)
package domain
