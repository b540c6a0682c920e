package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

// WorkSchedule is the template for one weekday. At most one active schedule exists per weekday.
// Shift times only carry a wall clock; the calendar date comes from the entry being computed.
type WorkSchedule struct {
	ID      string
	Weekday time.Weekday

	MorningStart   *time.Time
	MorningEnd     *time.Time
	NoonStart      *time.Time
	NoonEnd        *time.Time
	AfternoonStart *time.Time
	AfternoonEnd   *time.Time

	IsMorningRequired   bool
	IsAfternoonRequired bool
	AllowedLateMinutes  int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session names the part of a working day a leave or a compensatory workday applies to.
type Session string

const (
	SessionFullDay   Session = "full_day"
	SessionMorning   Session = "morning"
	SessionAfternoon Session = "afternoon"
)

var SessionValues = []string{
	string(SessionFullDay),
	string(SessionMorning),
	string(SessionAfternoon),
}

func (s Session) IncludesMorning() bool {
	return s == SessionFullDay || s == SessionMorning
}

func (s Session) IncludesAfternoon() bool {
	return s == SessionFullDay || s == SessionAfternoon
}

var halfDay = decimal.New(5, -1)

// HalfDay is the working-day credit of a single shift.
func HalfDay() decimal.Decimal {
	return halfDay
}

func (w WorkSchedule) HasMorning() bool {
	return w.MorningStart != nil && w.MorningEnd != nil && w.MorningEnd.After(*w.MorningStart)
}

func (w WorkSchedule) HasAfternoon() bool {
	return w.AfternoonStart != nil && w.AfternoonEnd != nil && w.AfternoonEnd.After(*w.AfternoonStart)
}

// MorningWindow returns the morning shift placed on date.
func (w WorkSchedule) MorningWindow(date time.Time) (interval.Window, bool) {
	if !w.HasMorning() {
		return interval.Window{}, false
	}
	return interval.New(interval.OnDate(date, *w.MorningStart), interval.OnDate(date, *w.MorningEnd)), true
}

// AfternoonWindow returns the afternoon shift placed on date.
func (w WorkSchedule) AfternoonWindow(date time.Time) (interval.Window, bool) {
	if !w.HasAfternoon() {
		return interval.Window{}, false
	}
	return interval.New(interval.OnDate(date, *w.AfternoonStart), interval.OnDate(date, *w.AfternoonEnd)), true
}

func (w WorkSchedule) MorningRequired() bool {
	return w.IsMorningRequired && w.HasMorning()
}

func (w WorkSchedule) AfternoonRequired() bool {
	return w.IsAfternoonRequired && w.HasAfternoon()
}

// MaxWorkingDays is the credit a fully attended day earns: half a day per required shift.
func (w WorkSchedule) MaxWorkingDays() decimal.Decimal {
	total := decimal.Zero
	if w.MorningRequired() {
		total = total.Add(halfDay)
	}
	if w.AfternoonRequired() {
		total = total.Add(halfDay)
	}
	return total
}

// ForSession returns a copy of the schedule whose required shifts are exactly those of session.
// Missing shift times are borrowed from fallback, typically a regular weekday schedule.
func (w WorkSchedule) ForSession(session Session, fallback *WorkSchedule) WorkSchedule {
	out := w
	if fallback != nil {
		if !out.HasMorning() && fallback.HasMorning() {
			out.MorningStart, out.MorningEnd = fallback.MorningStart, fallback.MorningEnd
		}
		if !out.HasAfternoon() && fallback.HasAfternoon() {
			out.AfternoonStart, out.AfternoonEnd = fallback.AfternoonStart, fallback.AfternoonEnd
		}
		if out.NoonStart == nil && out.NoonEnd == nil {
			out.NoonStart, out.NoonEnd = fallback.NoonStart, fallback.NoonEnd
		}
		if out.AllowedLateMinutes == 0 {
			out.AllowedLateMinutes = fallback.AllowedLateMinutes
		}
	}
	out.IsMorningRequired = session.IncludesMorning()
	out.IsAfternoonRequired = session.IncludesAfternoon()
	return out
}
