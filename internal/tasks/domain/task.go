package domain

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/deadlines/internal/calendar"
)

// MaxNameLength is the longest task name accepted, in runes.
const MaxNameLength = 200

// Task is a named piece of work with a deadline.
//
// When Start is set the task occupies the closed span [Start, Deadline];
// otherwise its span is the single instant Deadline.
type Task struct {
	id          int64
	guid        string
	name        string
	description string
	start       calendar.Instant
	deadline    calendar.Instant
	tags        []string
	done        bool
	createdAt   calendar.Instant
	updatedAt   calendar.Instant
}

// TaskOption sets an optional field in NewTask.
type TaskOption func(*Task)

// WithDescription sets the free-form description.
func WithDescription(description string) TaskOption {
	return func(t *Task) { t.description = strings.TrimSpace(description) }
}

// WithStart sets the beginning of the task's work span.
func WithStart(start calendar.Instant) TaskOption {
	return func(t *Task) { t.start = start }
}

// WithTags sets the tags; see NormalizeTags.
func WithTags(tags ...string) TaskOption {
	return func(t *Task) { t.tags = NormalizeTags(tags) }
}

// NewTask creates a task. Name and deadline are required.
func NewTask(guid, name string, deadline, now calendar.Instant, opts ...TaskOption) (*Task, error) {
	t := &Task{
		guid:      guid,
		name:      strings.TrimSpace(name),
		deadline:  deadline,
		tags:      []string{},
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if guid == "" {
		return nil, &InvalidTaskError{Field: "guid", Reason: "is required"}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstituteTask rebuilds a task from storage without validation.
func ReconstituteTask(
	id int64,
	guid, name, description string,
	start, deadline calendar.Instant,
	tags []string,
	done bool,
	createdAt, updatedAt calendar.Instant,
) *Task {
	if tags == nil {
		tags = []string{}
	}
	return &Task{
		id:          id,
		guid:        guid,
		name:        name,
		description: description,
		start:       start,
		deadline:    deadline,
		tags:        tags,
		done:        done,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t *Task) validate() error {
	if t.name == "" {
		return &InvalidTaskError{Field: "name", Reason: "must not be blank"}
	}
	if utf8.RuneCountInString(t.name) > MaxNameLength {
		return &InvalidTaskError{Field: "name", Reason: "longer than 200 characters"}
	}
	if t.deadline.IsZero() {
		return &InvalidTaskError{Field: "deadline", Reason: "is required"}
	}
	if !t.start.IsZero() {
		if _, err := calendar.NewInterval(t.start, t.deadline); err != nil {
			return &InvalidTaskError{Field: "start", Reason: "must not be after the deadline"}
		}
	}
	return nil
}

func (t *Task) ID() int64 { return t.id }
func (t *Task) GUID() string { return t.guid }
func (t *Task) Name() string { return t.name }
func (t *Task) Description() string { return t.description }
func (t *Task) Start() calendar.Instant { return t.start }
func (t *Task) HasStart() bool { return !t.start.IsZero() }
func (t *Task) Deadline() calendar.Instant { return t.deadline }
func (t *Task) Done() bool { return t.done }
func (t *Task) CreatedAt() calendar.Instant { return t.createdAt }
func (t *Task) UpdatedAt() calendar.Instant { return t.updatedAt }
func (t *Task) Tags() []string { return slices.Clone(t.tags) }
func (t *Task) HasTag(tag string) bool { return slices.Contains(t.tags, normalizeTag(tag)) }
func (t *Task) ShortID() string { return ShortID(t.guid) }

// SetID sets the storage identifier after the first save.
func (t *Task) SetID(id int64) {
	t.id = id
}

// Span returns the closed interval the task occupies.
func (t *Task) Span() calendar.Interval {
	if t.start.IsZero() {
		return calendar.Interval{Begin: t.deadline, End: t.deadline}
	}
	return calendar.Interval{Begin: t.start, End: t.deadline}
}

// DueWithin reports whether the deadline falls inside iv.
func (t *Task) DueWithin(iv calendar.Interval) bool {
	return calendar.IntervalsOverlap(t.deadline, t.deadline, iv.Begin, iv.End)
}

// ActiveWithin reports whether any part of the task's span falls inside iv.
func (t *Task) ActiveWithin(iv calendar.Interval) bool {
	span := t.Span()
	return calendar.IntervalsOverlap(span.Begin, span.End, iv.Begin, iv.End)
}

// ConflictsWith reports whether two open tasks have overlapping spans.
func (t *Task) ConflictsWith(other *Task) bool {
	if t.done || other.done || t.guid == other.guid {
		return false
	}
	return t.Span().Overlaps(other.Span())
}

// IsOverdue reports whether an open task's deadline has passed.
func (t *Task) IsOverdue(now calendar.Instant) bool {
	return !t.done && t.deadline.Before(now)
}

// Rename changes the task name.
func (t *Task) Rename(name string, now calendar.Instant) error {
	prev := t.name
	t.name = strings.TrimSpace(name)
	if err := t.validate(); err != nil {
		t.name = prev
		return err
	}
	t.touch(now)
	return nil
}

// SetDescription replaces the description. Blank clears it.
func (t *Task) SetDescription(description string, now calendar.Instant) {
	t.description = strings.TrimSpace(description)
	t.touch(now)
}

// SetTags replaces the tags.
func (t *Task) SetTags(tags []string, now calendar.Instant) {
	t.tags = NormalizeTags(tags)
	t.touch(now)
}

// Reschedule replaces the span. A zero start removes it.
func (t *Task) Reschedule(start, deadline calendar.Instant, now calendar.Instant) error {
	prevStart, prevDeadline := t.start, t.deadline
	t.start, t.deadline = start, deadline
	if err := t.validate(); err != nil {
		t.start, t.deadline = prevStart, prevDeadline
		return err
	}
	t.touch(now)
	return nil
}

// Postpone moves the span forward by days calendar days.
func (t *Task) Postpone(days int, now calendar.Instant) error {
	if days < 1 {
		return &InvalidTaskError{Field: "days", Reason: "must be at least 1"}
	}
	if !t.start.IsZero() {
		t.start = calendar.AddDays(t.start, days)
	}
	t.deadline = calendar.AddDays(t.deadline, days)
	t.touch(now)
	return nil
}

// Complete marks the task done.
func (t *Task) Complete(now calendar.Instant) {
	t.done = true
	t.touch(now)
}

// Reopen marks the task open again.
func (t *Task) Reopen(now calendar.Instant) {
	t.done = false
	t.touch(now)
}

// ResetData copies name, description, start and deadline from replacement.
// Identity, tags and completion are kept. On error t is unchanged.
func (t *Task) ResetData(replacement *Task, now calendar.Instant) error {
	prev := *t
	t.name = replacement.name
	t.description = replacement.description
	t.start = replacement.start
	t.deadline = replacement.deadline
	if err := t.validate(); err != nil {
		*t = prev
		return err
	}
	t.touch(now)
	return nil
}

// Equal reports whether both tasks have the same name, deadline and description.
func (t *Task) Equal(other *Task) bool {
	if other == nil {
		return false
	}
	return t == other ||
		(t.name == other.name && t.deadline.Equal(other.deadline) && t.description == other.description)
}

func (t *Task) touch(now calendar.Instant) {
	t.updatedAt = now
}

// NormalizeTags lowercases and trims tags, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = normalizeTag(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ShortID returns the first eight characters of a GUID for display.
func ShortID(guid string) string {
	if len(guid) <= 8 {
		return guid
	}
	return guid[:8]
}

// SortByDeadline orders tasks by deadline, then name.
func SortByDeadline(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		if c := a.deadline.Compare(b.deadline); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
}
