package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cast"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
	"github.com/zjrosen/deadlines/internal/ui/shared/table"
	"github.com/zjrosen/deadlines/internal/ui/styles"
)

const (
	defaultOutputWidth = 100
	minOutputWidth     = 40
	defaultDateFormat  = "Mon 2006-01-02 15:04"
)

// outputWidth is $COLUMNS when set, else defaultOutputWidth.
func outputWidth() int {
	if w := cast.ToInt(os.Getenv("COLUMNS")); w > 0 {
		return max(w, minOutputWidth)
	}
	return defaultOutputWidth
}

func dateFormat() string {
	if cfg.Display.DateFormat == "" {
		return defaultDateFormat
	}
	return cfg.Display.DateFormat
}

func formatInstant(i calendar.Instant) string {
	return i.Format(dateFormat())
}

// taskTable lays out tasks as ID, DUE, WHEN, NAME and TAGS columns, each row
// colored by its urgency at now.
func taskTable(tasks []*domain.Task, now calendar.Instant) *table.Table {
	dueWidth := ansi.StringWidth(formatInstant(now))
	nameMax := cfg.Display.MaxNameWidth

	cols := []table.ColumnConfig{
		{Key: "id", Header: "ID", Width: 8},
		{Key: "due", Header: "DUE", Width: dueWidth},
		{Key: "when", Header: "WHEN", Width: 9},
		{Key: "name", Header: "NAME", MinWidth: 10, MaxWidth: nameMax},
	}
	if cfg.Display.ShowTags {
		cols = append(cols, table.ColumnConfig{Key: "tags", Header: "TAGS", MinWidth: 6, HideBelow: 70})
	}

	t := table.New(cols...)
	for _, task := range tasks {
		name := task.Name()
		if task.Done() {
			name = "✓ " + name
		}
		urgency := styles.UrgencyOf(task.Deadline(), now, task.Done())
		t.AddRow(urgency.Style(),
			"id", task.ShortID(),
			"due", formatInstant(task.Deadline()),
			"when", styles.FormatRelative(task.Deadline(), now),
			"name", name,
			"tags", styles.FormatTags(task.Tags()),
		)
	}
	return t
}

// describeTask is the one-line summary printed after a change.
func describeTask(task *domain.Task, now calendar.Instant) string {
	line := task.ShortID() + " " + task.Name() + ", due " + formatInstant(task.Deadline()) +
		" (" + styles.FormatRelative(task.Deadline(), now) + ")"
	if task.HasStart() {
		line += ", from " + formatInstant(task.Start())
	}
	return line
}

func muted(s string) string {
	return styles.MutedStyle.Render(s)
}

// plainStyle leaves rows uncolored.
var plainStyle = lipgloss.NewStyle()
