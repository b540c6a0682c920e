package interval

import "time"

// Window is a time range [Start, End). A window whose End is not after Start is empty.
type Window struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// IsEmpty reports whether the window covers no time at all.
func (w Window) IsEmpty() bool {
	return !w.End.After(w.Start)
}

// Duration returns the length of the window, zero for empty windows.
func (w Window) Duration() time.Duration {
	if w.IsEmpty() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Intersect returns the common part of two windows.
// The boolean is false when the windows do not overlap.
func (w Window) Intersect(o Window) (Window, bool) {
	start := w.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := w.End
	if o.End.Before(end) {
		end = o.End
	}
	out := Window{Start: start, End: end}
	if out.IsEmpty() {
		return Window{}, false
	}
	return out, true
}

// Overlap returns how long two windows overlap.
func (w Window) Overlap(o Window) time.Duration {
	common, ok := w.Intersect(o)
	if !ok {
		return 0
	}
	return common.Duration()
}

// OnDate places the wall clock of clock (hour, minute, second) on the calendar day of date,
// in date's location.
func OnDate(date time.Time, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
}

// Clock builds a wall clock value usable with OnDate.
func Clock(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
}

// StartOfDay returns 00:00:00 of the given date in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns every calendar day from `from` to `to`, both inclusive.
func DaysBetween(from, to time.Time) []time.Time {
	from = StartOfDay(from)
	to = StartOfDay(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}
