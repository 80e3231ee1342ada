package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// MaxRangeDays caps how many days a single range may span.
const MaxRangeDays = 731

// Range is an inclusive window of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange normalises both bounds to calendar days.
func NewRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Valid reports whether Start <= End.
func (r Range) Valid() bool {
	return !Day(r.Start).After(Day(r.End))
}

// TooLong reports whether the range spans more than MaxRangeDays.
func (r Range) TooLong() bool {
	return r.Len() > MaxRangeDays
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Len returns the number of days in the range, or 0 when invalid.
func (r Range) Len() int {
	if !r.Valid() {
		return 0
	}
	return int(Day(r.End).Sub(Day(r.Start)).Hours()/24) + 1
}

// Shift moves the range by n whole days.
func (r Range) Shift(n int) Range {
	return Range{Start: Day(r.Start).AddDate(0, 0, n), End: Day(r.End).AddDate(0, 0, n)}
}

func (r Range) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// Day truncates t to its calendar day at 00:00 UTC, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// Days enumerates every calendar day in r, both endpoints included.
func Days(r Range) []time.Time {
	n := r.Len()
	if n == 0 {
		return nil
	}
	days := make([]time.Time, 0, n)
	day := Day(r.Start)
	end := Day(r.End)
	for !day.After(end) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// MonthRange returns the calendar month containing t.
func MonthRange(t time.Time) Range {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: first, End: first.AddDate(0, 1, -1)}
}

// LastNDays returns the n days ending on t.
func LastNDays(t time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	end := Day(t)
	return Range{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}
