// Package application implements the task use cases behind the deadlines CLI.
//
// Service sits between the cobra commands and the domain:
//   - it resolves user-typed task ids (full GUIDs or unique prefixes)
//   - it reads "now" from an injected calendar.Clock, never from time.Now
//   - it persists through domain.TaskRepository
//
// # Dates on the command line
//
// ParseDeadline and ParseStart turn user input into instants. Both accept the
// keywords "today" and "tomorrow" plus anything calendar.ParseInstant reads.
// A bare date means the end of that day for a deadline and its beginning for
// a start.
//
// # Import Aliasing
//
// When importing alongside the domain package use aliasing:
//
//	import (
//	    "github.com/zjrosen/deadlines/internal/tasks/domain"
//	    apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
//	)
package application
