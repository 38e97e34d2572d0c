package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/deadlines/internal/calendar"
)

// ParseDeadline reads a deadline. Keywords and bare dates resolve to the
// last instant of the day; "next-week" is the end of next Sunday.
func ParseDeadline(s string, clock calendar.Clock) (calendar.Instant, error) {
	return parseDay(s, clock, calendar.EndOfDay, func(today calendar.Instant) calendar.Instant {
		return calendar.EndOfWeek(calendar.StartOfNextWeek(today))
	})
}

// ParseStart reads the beginning of a task's span. Keywords and bare dates
// resolve to midnight; "next-week" is next Monday.
func ParseStart(s string, clock calendar.Clock) (calendar.Instant, error) {
	return parseDay(s, clock, calendar.BeginOfDay, calendar.StartOfNextWeek)
}

func parseDay(
	s string,
	clock calendar.Clock,
	snap func(calendar.Instant) calendar.Instant,
	nextWeek func(calendar.Instant) calendar.Instant,
) (calendar.Instant, error) {
	input := strings.TrimSpace(s)
	switch strings.ToLower(input) {
	case "":
		return calendar.Instant{}, fmt.Errorf("%w: empty date", calendar.ErrUnparsableInstant)
	case "now":
		return clock.Now(), nil
	case "today":
		return snap(calendar.Today(clock)), nil
	case "tomorrow":
		return snap(calendar.Tomorrow(clock)), nil
	case "next-week", "nextweek":
		return nextWeek(calendar.Today(clock)), nil
	}

	if t, err := time.ParseInLocation(calendar.DateLayout, input, time.Local); err == nil {
		return snap(calendar.FromTime(t)), nil
	}
	return calendar.ParseInstant(input)
}
