package codex

import "time"

// Clock abstracts time.Now() so "now" can be pinned in tests and in replays.
// The Engine uses it to cap the timeline and to project future potentials.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

const secondsPerDay = 24 * 60 * 60

// civilDay returns midnight UTC of t's calendar date, read in t's own location.
// All timeline dates are civil dates: a birthday is the local calendar day,
// not an absolute instant.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// anniversary returns the civil date of month/day of ref in the given year.
// time.Date normalizes Feb 29 to March 1st in non-leap years.
func anniversary(ref time.Time, year int) time.Time {
	return time.Date(year, ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the signed number of days from a to b. It works on
// Unix seconds because time.Duration saturates past roughly 292 years.
func daysBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) / secondsPerDay
}

// ageAt returns whole years elapsed from birth to date, counted as
// floor(days / 365.25).
func ageAt(birth, date time.Time) int {
	days := daysBetween(birth, date)
	if days < 0 {
		return 0
	}
	return int(days / daysPerYear)
}
