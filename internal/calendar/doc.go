// Package calendar implements day, week and interval arithmetic over
// millisecond-resolution instants.
//
// The core type is [Instant], an immutable wrapper around [time.Time]. Every
// operation in this package returns a new Instant and never modifies its
// input, so instants can be shared freely between goroutines.
//
// # Conventions
//
// Weeks start on Monday and end on Sunday. Weekday numbers follow
// [time.Weekday] (Sunday = 0 … Saturday = 6). These conventions are fixed
// constants, not options.
//
// [NextDay] and [PreviousDay] move an instant by exactly [OneDay]
// milliseconds. Use [AddDays] when the wall-clock time must be preserved
// across daylight-saving transitions.
//
// # Clock
//
// Functions that need "now" take a [Clock]. Production code passes
// [SystemClock]; tests pass a [FixedClock]:
//
//	clock := calendar.FixedClock{At: calendar.FromTime(time.Date(2024, 5, 15, 14, 0, 0, 0, time.UTC))}
//	monday := calendar.BeginOfWeek(calendar.Today(clock))
//
// # Intervals
//
// [IntervalsOverlap] tests two closed intervals. It does not validate that
// each interval is ordered; use [NewInterval] or [Interval.Validate] when the
// inputs come from untrusted sources.
package calendar
