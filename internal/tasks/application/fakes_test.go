package application

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

var testNow = instant(2024, time.May, 15, 14, 0) // Wednesday

func instant(y int, m time.Month, d, hour, min int) calendar.Instant {
	return calendar.FromTime(time.Date(y, m, d, hour, min, 0, 0, time.UTC))
}

// memRepository is an in-memory domain.TaskRepository. It stores copies so
// tests observe only what was saved.
type memRepository struct {
	tasks  map[string]*domain.Task
	nextID int64
	err    error // returned by every call when set
}

var _ domain.TaskRepository = (*memRepository)(nil)

func newMemRepository() *memRepository {
	return &memRepository{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	return domain.ReconstituteTask(t.ID(), t.GUID(), t.Name(), t.Description(), t.Start(), t.Deadline(),
		t.Tags(), t.Done(), t.CreatedAt(), t.UpdatedAt())
}

func (r *memRepository) Save(task *domain.Task) error {
	if r.err != nil {
		return r.err
	}
	if task.ID() == 0 {
		if _, exists := r.tasks[task.GUID()]; exists {
			return errors.New("UNIQUE constraint failed: tasks.guid")
		}
		r.nextID++
		task.SetID(r.nextID)
	}
	r.tasks[task.GUID()] = cloneTask(task)
	return nil
}

func (r *memRepository) FindByGUID(guid string) (*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[guid]
	if !ok {
		return nil, &domain.TaskNotFoundError{GUID: guid}
	}
	return cloneTask(t), nil
}

func (r *memRepository) FindByGUIDPrefix(prefix string) ([]*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Task
	for guid, t := range r.tasks {
		if prefix != "" && strings.HasPrefix(guid, prefix) {
			out = append(out, cloneTask(t))
		}
	}
	domain.SortByDeadline(out)
	return out, nil
}

func (r *memRepository) Delete(guid string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.tasks[guid]; !ok {
		return &domain.TaskNotFoundError{GUID: guid}
	}
	delete(r.tasks, guid)
	return nil
}

func (r *memRepository) List(filter domain.ListFilter) ([]*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Task
	for _, t := range r.tasks {
		if !filter.DueFrom.IsZero() && t.Deadline().Before(filter.DueFrom) {
			continue
		}
		if !filter.DueTo.IsZero() && t.Deadline().After(filter.DueTo) {
			continue
		}
		if !filter.IncludeDone && t.Done() {
			continue
		}
		if filter.Tag != "" && !t.HasTag(filter.Tag) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	domain.SortByDeadline(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// sequentialGUIDs hands out predictable GUIDs: task-0001, task-0002, ...
func sequentialGUIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%04d", n)
	}
}

type testEnv struct {
	repo    *memRepository
	service *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemRepository()
	return &testEnv{
		repo:    repo,
		service: NewService(repo, calendar.FixedClock{At: testNow}, WithGUIDGenerator(sequentialGUIDs())),
	}
}

func (e *testEnv) add(t *testing.T, name string, deadline calendar.Instant, start calendar.Instant, tags ...string) *domain.Task {
	t.Helper()
	task, err := e.service.Add(AddRequest{Name: name, Deadline: deadline, Start: start, Tags: tags})
	require.NoError(t, err)
	return task
}

func taskNames(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name())
	}
	return out
}
