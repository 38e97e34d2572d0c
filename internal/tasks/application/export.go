package application

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/log"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

// exportLayout is RFC 3339 with fixed milliseconds, so end-of-day deadlines
// survive a round trip.
const exportLayout = "2006-01-02T15:04:05.000Z07:00"

// ExportedTask is the YAML shape of one task. Instants carry their UTC offset
// so the file stays readable and unambiguous.
type ExportedTask struct {
	GUID        string   `yaml:"guid"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Start       string   `yaml:"start,omitempty"`
	Deadline    string   `yaml:"deadline"`
	Tags        []string `yaml:"tags,omitempty"`
	Done        bool     `yaml:"done"`
	CreatedAt   string   `yaml:"created_at"`
	UpdatedAt   string   `yaml:"updated_at"`
}

// ExportDocument is the top-level YAML document written by Export.
type ExportDocument struct {
	ExportedAt string         `yaml:"exported_at"`
	Tasks      []ExportedTask `yaml:"tasks"`
}

func toExportedTask(t *domain.Task) ExportedTask {
	e := ExportedTask{
		GUID:        t.GUID(),
		Name:        t.Name(),
		Description: t.Description(),
		Deadline:    formatExport(t.Deadline()),
		Tags:        t.Tags(),
		Done:        t.Done(),
		CreatedAt:   formatExport(t.CreatedAt()),
		UpdatedAt:   formatExport(t.UpdatedAt()),
	}
	if t.HasStart() {
		e.Start = formatExport(t.Start())
	}
	return e
}

func formatExport(i calendar.Instant) string {
	return i.Format(exportLayout)
}

// Export writes every task, done or not, as YAML ordered by deadline then
// name. It returns the number of tasks written.
func (s *Service) Export(w io.Writer) (int, error) {
	tasks, err := s.repo.List(domain.ListFilter{IncludeDone: true})
	if err != nil {
		return 0, fmt.Errorf("listing tasks: %w", err)
	}
	domain.SortByDeadline(tasks)

	doc := ExportDocument{
		ExportedAt: formatExport(s.clock.Now()),
		Tasks:      make([]ExportedTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, toExportedTask(t))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("flushing export: %w", err)
	}

	log.Info(log.CatTasks, "Exported tasks", "count", len(doc.Tasks))
	return len(doc.Tasks), nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Added    int
	Replaced int // GUID already present, overwritten with ReplaceExisting
	Skipped  int // GUID already present
}

type importConfig struct {
	replace bool
}

// ImportOption configures Import.
type ImportOption func(*importConfig)

// ReplaceExisting makes Import overwrite tasks whose GUID is already stored
// with the imported name, description, span, tags and completion.
func ReplaceExisting() ImportOption {
	return func(c *importConfig) { c.replace = true }
}

// Import reads a document written by Export and adds every task whose GUID
// is not stored yet. Existing tasks are left untouched unless
// ReplaceExisting is given. The whole document is validated before anything
// is saved.
func (s *Service) Import(r io.Reader, opts ...ImportOption) (ImportResult, error) {
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var doc ExportDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return ImportResult{}, fmt.Errorf("decoding import: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(doc.Tasks))
	for i, e := range doc.Tasks {
		task, err := fromExportedTask(e)
		if err != nil {
			return ImportResult{}, fmt.Errorf("task %d (%s): %w", i+1, e.GUID, err)
		}
		tasks = append(tasks, task)
	}

	var result ImportResult
	for _, task := range tasks {
		existing, err := s.repo.FindByGUID(task.GUID())
		var notFound *domain.TaskNotFoundError
		switch {
		case errors.As(err, &notFound):
			if err := s.repo.Save(task); err != nil {
				return result, fmt.Errorf("saving task %s: %w", task.GUID(), err)
			}
			result.Added++
		case err != nil:
			return result, err
		case !cfg.replace:
			result.Skipped++
		default:
			if err := s.replaceTask(existing, task); err != nil {
				return result, fmt.Errorf("replacing task %s: %w", task.GUID(), err)
			}
			result.Replaced++
		}
	}

	log.Info(log.CatTasks, "Imported tasks",
		"added", result.Added, "replaced", result.Replaced, "skipped", result.Skipped)
	return result, nil
}

func (s *Service) replaceTask(existing, imported *domain.Task) error {
	now := s.clock.Now()
	if err := existing.ResetData(imported, now); err != nil {
		return err
	}
	existing.SetTags(imported.Tags(), now)
	if imported.Done() {
		existing.Complete(now)
	} else {
		existing.Reopen(now)
	}
	return s.repo.Save(existing)
}

func fromExportedTask(e ExportedTask) (*domain.Task, error) {
	deadline, err := parseExport(e.Deadline)
	if err != nil {
		return nil, err
	}
	start, err := parseExport(e.Start)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseExport(e.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseExport(e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		createdAt = deadline
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	// NewTask validates; the stored timestamps are restored afterwards.
	task, err := domain.NewTask(e.GUID, e.Name, deadline, createdAt,
		domain.WithDescription(e.Description),
		domain.WithStart(start),
		domain.WithTags(e.Tags...),
	)
	if err != nil {
		return nil, err
	}
	return domain.ReconstituteTask(0, task.GUID(), task.Name(), task.Description(),
		task.Start(), task.Deadline(), task.Tags(), e.Done, createdAt, updatedAt), nil
}

// parseExport reads an RFC 3339 timestamp, fractional seconds optional.
// Empty means zero.
func parseExport(s string) (calendar.Instant, error) {
	if s == "" {
		return calendar.Instant{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return calendar.Instant{}, fmt.Errorf("%w: %q", calendar.ErrUnparsableInstant, s)
	}
	return calendar.FromTime(t), nil
}
