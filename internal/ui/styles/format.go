package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/deadlines/internal/calendar"
)

// Urgency buckets a deadline relative to now.
type Urgency int

const (
	UrgencyUpcoming Urgency = iota
	UrgencyToday
	UrgencyOverdue
	UrgencyDone
)

// UrgencyOf classifies a deadline. Done wins over everything else.
func UrgencyOf(deadline, now calendar.Instant, done bool) Urgency {
	switch {
	case done:
		return UrgencyDone
	case deadline.Before(now):
		return UrgencyOverdue
	case calendar.SameDay(deadline, now):
		return UrgencyToday
	}
	return UrgencyUpcoming
}

// Style returns the lipgloss style for u.
func (u Urgency) Style() lipgloss.Style {
	switch u {
	case UrgencyOverdue:
		return OverdueStyle
	case UrgencyToday:
		return DueTodayStyle
	case UrgencyDone:
		return DoneStyle
	}
	return UpcomingStyle
}

// FormatRelative describes deadline as seen from now in whole calendar days:
// "today", "tomorrow", "yesterday", "in 3d" or "2d ago".
func FormatRelative(deadline, now calendar.Instant) string {
	days := calendarDaysBetween(now, deadline)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %dd", days)
	}
	return fmt.Sprintf("%dd ago", -days)
}

// calendarDaysBetween counts midnights crossed going from a to b, measured on
// b's wall clock. It is negative when b's day is before a's.
func calendarDaysBetween(a, b calendar.Instant) int {
	from := calendar.BeginOfDay(calendar.FromTime(a.Time().In(b.Time().Location())))
	to := calendar.BeginOfDay(b)
	days := 0
	for calendar.AddDays(from, days).Before(to) {
		days++
	}
	for to.Before(calendar.AddDays(from, days)) {
		days--
	}
	return days
}

// FormatTags renders tags as "#a #b". Empty input yields "".
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "#" + tag
	}
	return TagStyle.Render(strings.Join(parts, " "))
}

// FormatCount returns "1 task" or "n tasks".
func FormatCount(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %ss", n, singular)
}

// TruncateString shortens plain text to maxWidth terminal cells, ending in
// "…" when anything was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
