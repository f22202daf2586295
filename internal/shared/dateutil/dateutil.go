// Package dateutil holds the calendar-date helpers shared by attendance,
// leave and accrual. A "date" is a time.Time at midnight in the
// organization's location.
package dateutil

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock reports time.Now in loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// Day truncates t to midnight in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func Today(clock Clock) time.Time {
	return Day(clock())
}

func Parse(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(Layout, strings.TrimSpace(v), loc)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// DayName is the lower-case English weekday, the form stored in an
// employee's weekend-day set.
func DayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// YearBounds returns Jan 1 and Dec 31 of year in loc.
func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}

func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
