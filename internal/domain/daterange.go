package domain

import "time"

// DateRange is an inclusive calendar-date range. A nil *DateRange means "all
// time". To defaults to From for single-day ranges.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateRange builds a range from calendar dates, defaulting To to From when
// zero. Times are truncated to midnight so Days arithmetic stays exact.
func NewDateRange(from, to time.Time) *DateRange {
	from = Midnight(from)
	if to.IsZero() {
		to = from
	} else {
		to = Midnight(to)
	}
	return &DateRange{From: from, To: to}
}

// Days returns the inclusive length of the range in days.
func (r *DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// Contains reports whether the calendar date of t falls inside the range.
func (r *DateRange) Contains(t time.Time) bool {
	d := Midnight(t)
	return !d.Before(r.From) && !d.After(r.To)
}

// Midnight truncates t to the start of its calendar day, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
