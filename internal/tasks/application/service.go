package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/log"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

// Service runs task use cases against a repository and a clock.
type Service struct {
	repo    domain.TaskRepository
	clock   calendar.Clock
	newGUID func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithGUIDGenerator replaces the uuid generator, mostly for tests.
func WithGUIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) { s.newGUID = fn }
}

// NewService creates a Service. A nil clock means calendar.SystemClock.
func NewService(repo domain.TaskRepository, clock calendar.Clock, opts ...ServiceOption) *Service {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	s := &Service{
		repo:    repo,
		clock:   clock,
		newGUID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the clock the service reads "now" from.
func (s *Service) Clock() calendar.Clock {
	return s.clock
}

// AddRequest describes a new task.
type AddRequest struct {
	Name        string
	Description string
	Start       calendar.Instant // zero means no span, only a deadline
	Deadline    calendar.Instant
	Tags        []string
}

// Add validates and stores a new task.
func (s *Service) Add(req AddRequest) (*domain.Task, error) {
	task, err := domain.NewTask(s.newGUID(), req.Name, req.Deadline, s.clock.Now(),
		domain.WithDescription(req.Description),
		domain.WithStart(req.Start),
		domain.WithTags(req.Tags...),
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(task); err != nil {
		log.ErrorErr(log.CatTasks, "Failed to save task", err, "name", task.Name())
		return nil, fmt.Errorf("saving task: %w", err)
	}
	log.Info(log.CatTasks, "Added task", "guid", task.GUID(), "deadline", task.Deadline())
	return task, nil
}

// ListDue returns the tasks in window w, optionally restricted to a tag,
// ordered by deadline then name.
func (s *Service) ListDue(w domain.Window, tag string) ([]*domain.Task, error) {
	filter := domain.ListFilter{Tag: tag}
	switch w {
	case domain.WindowAll:
		filter.IncludeDone = true
	case domain.WindowOverdue:
		now := calendar.Today(s.clock)
		filter.DueTo = now.WithEpochMillis(now.EpochMillis() - 1)
	default:
		iv, _ := w.Range(s.clock)
		filter.DueFrom, filter.DueTo = iv.Begin, iv.End
	}

	candidates, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("listing %s tasks: %w", w, err)
	}

	tasks := make([]*domain.Task, 0, len(candidates))
	for _, t := range candidates {
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		if w.Matches(t, s.clock) {
			tasks = append(tasks, t)
		}
	}
	domain.SortByDeadline(tasks)
	log.Debug(log.CatTasks, "Listed tasks", "window", w, "count", len(tasks))
	return tasks, nil
}

// ListActive returns open tasks whose span touches iv.
func (s *Service) ListActive(iv calendar.Interval) ([]*domain.Task, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	// A span can start before iv and end after it, so only the deadline's
	// lower bound narrows the query.
	candidates, err := s.repo.List(domain.ListFilter{DueFrom: iv.Begin})
	if err != nil {
		return nil, fmt.Errorf("listing active tasks: %w", err)
	}

	var tasks []*domain.Task
	for _, t := range candidates {
		if t.ActiveWithin(iv) {
			tasks = append(tasks, t)
		}
	}
	domain.SortByDeadline(tasks)
	return tasks, nil
}

// Resolve finds a task by full GUID or by a prefix that matches exactly one
// task. It returns *domain.TaskNotFoundError or *domain.AmbiguousTaskIDError.
func (s *Service) Resolve(id string) (*domain.Task, error) {
	task, err := s.repo.FindByGUID(id)
	if err == nil {
		return task, nil
	}
	var notFound *domain.TaskNotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	matches, err := s.repo.FindByGUIDPrefix(id)
	if err != nil {
		return nil, fmt.Errorf("resolving task %q: %w", id, err)
	}
	switch len(matches) {
	case 0:
		return nil, &domain.TaskNotFoundError{GUID: id}
	case 1:
		return matches[0], nil
	default:
		return nil, &domain.AmbiguousTaskIDError{Prefix: id, Matches: len(matches)}
	}
}

// Postpone pushes a task's span forward by days calendar days.
func (s *Service) Postpone(id string, days int) (*domain.Task, error) {
	return s.update(id, func(t *domain.Task, now calendar.Instant) error {
		return t.Postpone(days, now)
	})
}

// Reschedule replaces a task's span. A zero start drops it.
func (s *Service) Reschedule(id string, start, deadline calendar.Instant) (*domain.Task, error) {
	return s.update(id, func(t *domain.Task, now calendar.Instant) error {
		return t.Reschedule(start, deadline, now)
	})
}

// EditRequest lists the fields to change. Nil fields are left alone.
type EditRequest struct {
	Name        *string
	Description *string
	Tags        *[]string // an empty slice removes every tag
}

// Edit changes a task's name, description or tags. Nothing is saved when
// any field is invalid.
func (s *Service) Edit(id string, req EditRequest) (*domain.Task, error) {
	if req.Name == nil && req.Description == nil && req.Tags == nil {
		return nil, &domain.InvalidTaskError{Field: "edit", Reason: "nothing to change"}
	}
	return s.update(id, func(t *domain.Task, now calendar.Instant) error {
		if req.Name != nil {
			if err := t.Rename(*req.Name, now); err != nil {
				return err
			}
		}
		if req.Description != nil {
			t.SetDescription(*req.Description, now)
		}
		if req.Tags != nil {
			t.SetTags(*req.Tags, now)
		}
		return nil
	})
}

// Complete marks a task done.
func (s *Service) Complete(id string) (*domain.Task, error) {
	return s.update(id, func(t *domain.Task, now calendar.Instant) error {
		t.Complete(now)
		return nil
	})
}

// Reopen marks a completed task open again.
func (s *Service) Reopen(id string) (*domain.Task, error) {
	return s.update(id, func(t *domain.Task, now calendar.Instant) error {
		t.Reopen(now)
		return nil
	})
}

// Remove deletes a task and returns what was deleted.
func (s *Service) Remove(id string) (*domain.Task, error) {
	task, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(task.GUID()); err != nil {
		return nil, fmt.Errorf("removing task: %w", err)
	}
	log.Info(log.CatTasks, "Removed task", "guid", task.GUID())
	return task, nil
}

func (s *Service) update(id string, mutate func(*domain.Task, calendar.Instant) error) (*domain.Task, error) {
	task, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(task, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(task); err != nil {
		log.ErrorErr(log.CatTasks, "Failed to save task", err, "guid", task.GUID())
		return nil, fmt.Errorf("saving task: %w", err)
	}
	log.Info(log.CatTasks, "Updated task", "guid", task.GUID(), "deadline", task.Deadline(), "done", task.Done())
	return task, nil
}

// Conflict is a pair of open tasks whose spans overlap. First never has a
// later deadline than Second.
type Conflict struct {
	First  *domain.Task
	Second *domain.Task
}

// Conflicts returns every pair of open tasks with overlapping spans,
// ordered by the first task's deadline.
func (s *Service) Conflicts() ([]Conflict, error) {
	tasks, err := s.repo.List(domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	domain.SortByDeadline(tasks)

	var conflicts []Conflict
	for i, a := range tasks {
		for _, b := range tasks[i+1:] {
			if a.ConflictsWith(b) {
				conflicts = append(conflicts, Conflict{First: a, Second: b})
			}
		}
	}
	log.Debug(log.CatTasks, "Checked conflicts", "tasks", len(tasks), "conflicts", len(conflicts))
	return conflicts, nil
}
