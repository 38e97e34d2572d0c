package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/deadlines/internal/log"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

// taskRepository implements domain.TaskRepository using SQLite.
type taskRepository struct {
	db *sql.DB
}

func newTaskRepository(db *sql.DB) *taskRepository {
	return &taskRepository{db: db}
}

var _ domain.TaskRepository = (*taskRepository)(nil)

// Save inserts a task with ID 0 and sets its ID, or updates the existing row.
// The task's tags are rewritten in the same transaction.
func (r *taskRepository) Save(task *domain.Task) (err error) {
	model := toTaskModel(task)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if model.ID == 0 {
		result, err := tx.Exec(
			`INSERT INTO tasks (guid, name, description, start_at, deadline_at, done, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Name, model.Description, model.StartAt, model.DeadlineAt, model.Done,
			model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
		if model.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	} else {
		result, err := tx.Exec(
			`UPDATE tasks SET name = ?, description = ?, start_at = ?, deadline_at = ?, done = ?, updated_at = ?
			 WHERE id = ?`,
			model.Name, model.Description, model.StartAt, model.DeadlineAt, model.Done, model.UpdatedAt, model.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return &domain.TaskNotFoundError{GUID: model.GUID}
		}
	}

	if err := writeTags(tx, model.ID, model.Tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}

	if task.ID() == 0 {
		task.SetID(model.ID)
	}
	log.Debug(log.CatDB, "Saved task", "guid", model.GUID, "id", model.ID)
	return nil
}

func writeTags(tx *sql.Tx, taskID int64, tags []string) error {
	if _, err := tx.Exec(`DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear task tags: %w", err)
	}
	for i, tag := range tags {
		if _, err := tx.Exec(
			`INSERT INTO task_tags (task_id, tag, position) VALUES (?, ?, ?)`,
			taskID, tag, i,
		); err != nil {
			return fmt.Errorf("failed to insert task tag %q: %w", tag, err)
		}
	}
	return nil
}

// FindByGUID returns TaskNotFoundError when no task matches.
func (r *taskRepository) FindByGUID(guid string) (*domain.Task, error) {
	var model TaskModel
	err := r.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE guid = ?`,
		guid,
	).Scan(model.scanTargets()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.TaskNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by guid: %w", err)
	}

	models := []*TaskModel{&model}
	if err := r.loadTags(models); err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

// FindByGUIDPrefix returns every task whose GUID starts with prefix, ordered
// by deadline. An empty prefix matches nothing.
func (r *taskRepository) FindByGUIDPrefix(prefix string) ([]*domain.Task, error) {
	if prefix == "" {
		return nil, nil
	}
	return r.query(
		`SELECT `+taskColumns+` FROM tasks WHERE guid LIKE ? ESCAPE '\' ORDER BY deadline_at, name`,
		escapeLike(prefix)+"%",
	)
}

// Delete removes the task. Its tags go with it through ON DELETE CASCADE.
func (r *taskRepository) Delete(guid string) error {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE guid = ?`, guid)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.TaskNotFoundError{GUID: guid}
	}
	log.Debug(log.CatDB, "Deleted task", "guid", guid)
	return nil
}

// List returns tasks matching filter ordered by deadline, then name.
func (r *taskRepository) List(filter domain.ListFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1 = 1`
	var args []any

	if !filter.DueFrom.IsZero() {
		query += ` AND deadline_at >= ?`
		args = append(args, filter.DueFrom.EpochMillis())
	}
	if !filter.DueTo.IsZero() {
		query += ` AND deadline_at <= ?`
		args = append(args, filter.DueTo.EpochMillis())
	}
	if !filter.IncludeDone {
		query += ` AND done = 0`
	}
	if filter.Tag != "" {
		query += ` AND id IN (SELECT task_id FROM task_tags WHERE tag = ?)`
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Tag)))
	}

	query += ` ORDER BY deadline_at, name`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	return r.query(query, args...)
}

func (r *taskRepository) query(query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var models []*TaskModel
	for rows.Next() {
		model := &TaskModel{}
		if err := rows.Scan(model.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	// Release the connection before the tag query.
	_ = rows.Close()

	if err := r.loadTags(models); err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, m.toDomain())
	}
	return tasks, nil
}

// loadTags fills Tags on every model with one query.
func (r *taskRepository) loadTags(models []*TaskModel) error {
	if len(models) == 0 {
		return nil
	}

	byID := make(map[int64]*TaskModel, len(models))
	placeholders := make([]string, 0, len(models))
	args := make([]any, 0, len(models))
	for _, m := range models {
		byID[m.ID] = m
		placeholders = append(placeholders, "?")
		args = append(args, m.ID)
	}

	rows, err := r.db.Query(
		`SELECT task_id, tag FROM task_tags
		 WHERE task_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY task_id, position`, //nolint:gosec // only placeholders are interpolated
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to load task tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			taskID int64
			tag    string
		)
		if err := rows.Scan(&taskID, &tag); err != nil {
			return fmt.Errorf("failed to scan task tag: %w", err)
		}
		if m, ok := byID[taskID]; ok {
			m.Tags = append(m.Tags, tag)
		}
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
