package calendar

import "time"

// Clock abstracts the wall clock so "today" can be pinned in tests.
type Clock interface {
	Now() Instant
}

// SystemClock reads time.Now in the local zone.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() Instant { return FromTime(time.Now()) }

// FixedClock always returns At.
type FixedClock struct {
	At Instant
}

// Now implements Clock.
func (c FixedClock) Now() Instant { return c.At }
