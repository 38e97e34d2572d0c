package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/deadlines/internal/calendar"
	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
	"github.com/zjrosen/deadlines/internal/ui/styles"
)

const maxWeekBoxWidth = 80

var weekCmd = &cobra.Command{
	Use:   "week [DATE]",
	Short: "Show the Monday..Sunday week containing DATE",
	Long: `Print the bounds of the week containing DATE (default today) and the open
tasks active in it, grouped by the day they are due. Tasks that started before
the week and are due after it are listed under "later".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeek,
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func runWeek(cmd *cobra.Command, args []string) error {
	day := calendar.Today(clock)
	if len(args) == 1 {
		parsed, err := apptasks.ParseStart(args[0], clock)
		if err != nil {
			return err
		}
		day = parsed
	}
	week := calendar.WeekOf(day)

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	tasks, err := svc.ListActive(week)
	if err != nil {
		return err
	}

	_, number := week.Begin.Time().ISOWeek()
	box := styles.RenderTitledBox(
		renderWeek(week, tasks),
		fmt.Sprintf("Week %d", number),
		styles.FormatCount(len(tasks), "task"),
		min(outputWidth(), maxWeekBoxWidth),
	)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), box)
	return nil
}

// renderWeek lists week's bounds, then one line per task under the day it is
// due. Days without tasks get a single muted dot.
func renderWeek(week calendar.Interval, tasks []*domain.Task) string {
	lines := []string{
		fmt.Sprintf(" %s → %s", formatInstant(week.Begin), formatInstant(week.End)),
		"",
	}

	now := clock.Now()
	for d := 0; d < 7; d++ {
		day := calendar.DayOf(calendar.AddDays(week.Begin, d))
		label := fmt.Sprintf(" %-7s", day.Begin.Format("Mon 02"))

		var due []*domain.Task
		for _, t := range tasks {
			if day.Contains(t.Deadline()) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			lines = append(lines, label+muted("·"))
			continue
		}
		for i, t := range due {
			if i > 0 {
				label = strings.Repeat(" ", len(label))
			}
			lines = append(lines, label+weekEntry(t, now))
		}
	}

	label := fmt.Sprintf(" %-7s", "later")
	for _, t := range tasks {
		if week.End.Before(t.Deadline()) {
			lines = append(lines, label+weekEntry(t, now)+muted(" (due "+t.Deadline().Format("Mon 02 Jan")+")"))
			label = strings.Repeat(" ", len(label))
		}
	}
	return strings.Join(lines, "\n")
}

func weekEntry(t *domain.Task, now calendar.Instant) string {
	urgency := styles.UrgencyOf(t.Deadline(), now, t.Done())
	return urgency.Style().Render(t.ShortID() + " " + t.Name())
}
