package dataset

import (
	"fmt"
	"time"
)

// DateLayout is the YYYY/MM/DD form both providers use for dates.
const DateLayout = "2006/01/02"

// seriesStart is the first day of every country's series.
var seriesStart = struct {
	year  int
	month time.Month
	day   int
}{2020, time.January, 22}

// Date returns the given calendar day anchored at local midday, so that
// adding whole days never crosses a DST boundary into the wrong date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

// SeriesStart returns the date of the first record of every series (2020-01-22).
func SeriesStart() time.Time {
	return Date(seriesStart.year, seriesStart.month, seriesStart.day)
}

// NextDate returns the calendar day after t, keeping the midday anchor.
func NextDate(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// ParseDate parses a YYYY/MM/DD string into a midday-anchored date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t.Year(), t.Month(), t.Day()), nil
}

// FormatDate renders t as YYYY/MM/DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
