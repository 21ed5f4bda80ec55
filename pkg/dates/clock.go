package dates

import "time"

// Clock abstracts time.Now() so "today" and the default year are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard time package.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

// Today returns the clock's current Day. A nil clock means SystemClock.
func Today(c Clock) Day {
	if c == nil {
		c = SystemClock{}
	}
	return FromTime(c.Now())
}

// CurrentYear returns the clock's current year. A nil clock means SystemClock.
func CurrentYear(c Clock) int {
	if c == nil {
		c = SystemClock{}
	}
	return c.Now().Year()
}
