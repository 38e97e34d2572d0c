package calendar

import "time"

// OneDay is the flat step used by NextDay and PreviousDay, in milliseconds.
const OneDay int64 = 24 * 3600 * 1000

// Week boundaries. Not configurable.
const (
	WeekStart = time.Monday
	WeekEnd   = time.Sunday
)

// maxWeekdaySteps bounds the walk in BeginOfWeek and EndOfWeek. Weekdays
// repeat every seven days, so any target is at most six steps away.
const maxWeekdaySteps = 6

// Today returns the current instant according to c.
func Today(c Clock) Instant {
	return c.Now()
}

// Tomorrow returns NextDay(Today(c)).
func Tomorrow(c Clock) Instant {
	return NextDay(Today(c))
}

// NextDay returns date moved forward by exactly OneDay milliseconds.
func NextDay(date Instant) Instant {
	return date.WithEpochMillis(date.EpochMillis() + OneDay)
}

// PreviousDay returns date moved back by exactly OneDay milliseconds.
func PreviousDay(date Instant) Instant {
	return date.WithEpochMillis(date.EpochMillis() - OneDay)
}

// BeginOfDay returns 00:00:00.000 on date's calendar day.
func BeginOfDay(date Instant) Instant {
	return date.WithClock(0, 0, 0)
}

// EndOfDay returns 23:59:59 on date's calendar day. The millisecond field is
// 999 so every instant of the day is at or before the result.
func EndOfDay(date Instant) Instant {
	return date.withClockMillis(23, 59, 59, 999)
}

// BeginOfWeek returns the start of the Monday on or before date.
func BeginOfWeek(date Instant) Instant {
	monday, _ := walkToWeekday(date, WeekStart, PreviousDay)
	return BeginOfDay(monday)
}

// EndOfWeek returns the end of the Sunday on or after date.
func EndOfWeek(date Instant) Instant {
	sunday, _ := walkToWeekday(date, WeekEnd, NextDay)
	return EndOfDay(sunday)
}

// walkToWeekday steps from date until it lands on target and reports the
// number of steps taken, which never exceeds maxWeekdaySteps.
//
// Each step is anchored at noon so a 23 or 25 hour day cannot skip or repeat
// a calendar date.
func walkToWeekday(date Instant, target time.Weekday, step func(Instant) Instant) (Instant, int) {
	cur := date.WithClock(12, 0, 0)
	steps := 0
	for cur.Weekday() != target {
		cur = step(cur).WithClock(12, 0, 0)
		steps++
	}
	return cur, steps
}

// AddDays moves date by n calendar days, keeping the wall-clock time. Unlike
// NextDay it follows daylight-saving transitions.
func AddDays(date Instant, n int) Instant {
	return FromTime(date.Time().AddDate(0, 0, n))
}

// StartOfNextWeek returns the Monday 00:00:00 following date's week.
func StartOfNextWeek(date Instant) Instant {
	sunday, _ := walkToWeekday(date, WeekEnd, NextDay)
	return BeginOfDay(AddDays(sunday, 1))
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b Instant) bool {
	ay, am, ad := a.Time().Date()
	by, bm, bd := b.Time().Date()
	return ay == by && am == bm && ad == bd
}

// IntervalsOverlap reports whether the closed intervals
// [firstBegin, firstEnd] and [secondBegin, secondEnd] share at least one
// instant. Touching endpoints count as overlap. The intervals are not checked
// for begin <= end.
func IntervalsOverlap(firstBegin, firstEnd, secondBegin, secondEnd Instant) bool {
	if firstBegin.After(secondEnd) || secondBegin.After(firstEnd) {
		return false
	}
	return true
}
