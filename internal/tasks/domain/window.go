package domain

import (
	"fmt"
	"strings"

	"github.com/zjrosen/deadlines/internal/calendar"
)

// Window names a due-date filter relative to the current instant.
type Window string

const (
	WindowToday    Window = "today"
	WindowTomorrow Window = "tomorrow"
	WindowThisWeek Window = "week"
	WindowNextWeek Window = "next-week"
	WindowOverdue  Window = "overdue"
	WindowAll      Window = "all"
)

// Windows lists every window in display order.
func Windows() []Window {
	return []Window{WindowToday, WindowTomorrow, WindowThisWeek, WindowNextWeek, WindowOverdue, WindowAll}
}

// ParseWindow reads a window name. Matching is case-insensitive and accepts
// "this-week" and "nextweek" as aliases.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return WindowToday, nil
	case "tomorrow":
		return WindowTomorrow, nil
	case "week", "this-week", "thisweek":
		return WindowThisWeek, nil
	case "next-week", "nextweek":
		return WindowNextWeek, nil
	case "overdue":
		return WindowOverdue, nil
	case "", "all":
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown due window %q (want one of %s)", s, windowNames())
}

func windowNames() string {
	names := make([]string, 0, len(Windows()))
	for _, w := range Windows() {
		names = append(names, string(w))
	}
	return strings.Join(names, ", ")
}

// Range returns the closed interval covered by w as seen from clock's "today".
// It reports false for the unbounded windows overdue and all.
func (w Window) Range(clock calendar.Clock) (calendar.Interval, bool) {
	today := calendar.Today(clock)
	switch w {
	case WindowToday:
		return calendar.DayOf(today), true
	case WindowTomorrow:
		return calendar.DayOf(calendar.Tomorrow(clock)), true
	case WindowThisWeek:
		return calendar.WeekOf(today), true
	case WindowNextWeek:
		return calendar.WeekOf(calendar.StartOfNextWeek(today)), true
	}
	return calendar.Interval{}, false
}

// Matches reports whether t belongs in w at the instant clock reports.
// Completed tasks match only WindowAll.
func (w Window) Matches(t *Task, clock calendar.Clock) bool {
	switch w {
	case WindowAll:
		return true
	case WindowOverdue:
		return t.IsOverdue(calendar.Today(clock))
	}
	iv, ok := w.Range(clock)
	return ok && !t.Done() && t.DueWithin(iv)
}
