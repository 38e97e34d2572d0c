package sqlite

import (
	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

// TaskModel is one row of the tasks table. Instants are epoch milliseconds.
type TaskModel struct {
	ID          int64
	GUID        string
	Name        string
	Description string
	StartAt     *int64 // nullable
	DeadlineAt  int64
	Done        bool
	CreatedAt   int64
	UpdatedAt   int64
	Tags        []string // from task_tags, in position order
}

// taskColumns is the SELECT list matching TaskModel.scanTargets.
const taskColumns = `id, guid, name, description, start_at, deadline_at, done, created_at, updated_at`

func (m *TaskModel) scanTargets() []any {
	return []any{&m.ID, &m.GUID, &m.Name, &m.Description, &m.StartAt, &m.DeadlineAt, &m.Done, &m.CreatedAt, &m.UpdatedAt}
}

func toTaskModel(t *domain.Task) *TaskModel {
	m := &TaskModel{
		ID:          t.ID(),
		GUID:        t.GUID(),
		Name:        t.Name(),
		Description: t.Description(),
		DeadlineAt:  t.Deadline().EpochMillis(),
		Done:        t.Done(),
		CreatedAt:   t.CreatedAt().EpochMillis(),
		UpdatedAt:   t.UpdatedAt().EpochMillis(),
		Tags:        t.Tags(),
	}
	if t.HasStart() {
		startAt := t.Start().EpochMillis()
		m.StartAt = &startAt
	}
	return m
}

func (m *TaskModel) toDomain() *domain.Task {
	var start calendar.Instant
	if m.StartAt != nil {
		start = calendar.FromMillis(*m.StartAt)
	}
	return domain.ReconstituteTask(
		m.ID,
		m.GUID,
		m.Name,
		m.Description,
		start,
		calendar.FromMillis(m.DeadlineAt),
		m.Tags,
		m.Done,
		calendar.FromMillis(m.CreatedAt),
		calendar.FromMillis(m.UpdatedAt),
	)
}
