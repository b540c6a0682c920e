package proposal

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
)

type Type string

const (
	TypePaidLeave            Type = "paid_leave"
	TypeUnpaidLeave          Type = "unpaid_leave"
	TypeMaternityLeave       Type = "maternity_leave"
	TypeLateExemption        Type = "late_exemption"
	TypePostMaternityBenefit Type = "post_maternity_benefit"
	TypeOvertimeWork         Type = "overtime_work"
	TypeTimesheetComplaint   Type = "timesheet_complaint"
	TypeTransfer             Type = "transfer"
	TypeDeviceChange         Type = "device_change"
)

// Known reports whether t is one of the proposal types issued by the HR system.
func (t Type) Known() bool {
	switch t {
	case TypePaidLeave, TypeUnpaidLeave, TypeMaternityLeave, TypeLateExemption, TypePostMaternityBenefit,
		TypeOvertimeWork, TypeTimesheetComplaint, TypeTransfer, TypeDeviceChange:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Base holds the fields every proposal carries.
type Base struct {
	ID         string
	EmployeeID string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b Base) Meta() Base { return b }

func (b Base) IsApproved() bool { return b.Status == StatusApproved }

// Proposal is implemented only by the variants in this package.
type Proposal interface {
	Meta() Base
	Type() Type
	// Covers reports whether the proposal affects date. Proposals with unresolved dates cover nothing.
	Covers(date time.Time) bool
	// Span returns the first and last affected dates; ok is false when they cannot be resolved.
	Span() (from, to time.Time, ok bool)
	sealed()
}

// DateRange is an inclusive range of calendar dates. A zero bound means "unresolved".
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Resolved() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

func (r DateRange) Covers(date time.Time) bool {
	if !r.Resolved() {
		return false
	}
	d := dateKey(date)
	return d >= dateKey(r.Start) && d <= dateKey(r.End)
}

func (r DateRange) span() (time.Time, time.Time, bool) {
	if !r.Resolved() {
		return time.Time{}, time.Time{}, false
	}
	return r.Start, r.End, true
}

type PaidLeave struct {
	Base
	Range   DateRange
	Session schedule.Session
}

type UnpaidLeave struct {
	Base
	Range   DateRange
	Session schedule.Session
}

type MaternityLeave struct {
	Base
	Range DateRange
}

// LateExemption widens the allowed lateness to Minutes for the covered dates.
type LateExemption struct {
	Base
	Range   DateRange
	Minutes int
}

// PostMaternityBenefit grants the reduced-hours benefit after maternity leave.
type PostMaternityBenefit struct {
	Base
	Range DateRange
}

// Window is one approved overtime slot. Start and End are wall clocks on Date.
type Window struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

func (w Window) Valid() bool {
	return !w.Date.IsZero() && interval.OnDate(w.Date, w.End).After(interval.OnDate(w.Date, w.Start))
}

// On places the window on its own date in loc.
func (w Window) On(loc *time.Location) interval.Window {
	day := time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(), 0, 0, 0, 0, loc)
	return interval.New(interval.OnDate(day, w.Start), interval.OnDate(day, w.End))
}

func (w Window) Minutes() int {
	return interval.Minutes(w.On(time.UTC).Duration())
}

type OvertimeWork struct {
	Base
	Windows []Window
}

// WindowsOn returns the valid windows that fall on date.
func (o OvertimeWork) WindowsOn(date time.Time) []Window {
	var out []Window
	for _, w := range o.Windows {
		if w.Valid() && dateKey(w.Date) == dateKey(date) {
			out = append(out, w)
		}
	}
	return out
}

// TimesheetComplaint asks to replace the punches of one entry.
type TimesheetComplaint struct {
	Base
	EntryID        *string
	Date           time.Time
	CorrectedStart *time.Time
	CorrectedEnd   *time.Time
}

// Other covers proposal kinds the timesheet engine does not consume (transfers, device changes, ...).
type Other struct {
	Base
	Kind Type
}

func (PaidLeave) Type() Type            { return TypePaidLeave }
func (UnpaidLeave) Type() Type          { return TypeUnpaidLeave }
func (MaternityLeave) Type() Type       { return TypeMaternityLeave }
func (LateExemption) Type() Type        { return TypeLateExemption }
func (PostMaternityBenefit) Type() Type { return TypePostMaternityBenefit }
func (OvertimeWork) Type() Type         { return TypeOvertimeWork }
func (TimesheetComplaint) Type() Type   { return TypeTimesheetComplaint }
func (o Other) Type() Type              { return o.Kind }

func (p PaidLeave) Covers(date time.Time) bool            { return p.Range.Covers(date) }
func (p UnpaidLeave) Covers(date time.Time) bool          { return p.Range.Covers(date) }
func (p MaternityLeave) Covers(date time.Time) bool       { return p.Range.Covers(date) }
func (p LateExemption) Covers(date time.Time) bool        { return p.Range.Covers(date) }
func (p PostMaternityBenefit) Covers(date time.Time) bool { return p.Range.Covers(date) }
func (o OvertimeWork) Covers(date time.Time) bool         { return len(o.WindowsOn(date)) > 0 }
func (c TimesheetComplaint) Covers(date time.Time) bool {
	return !c.Date.IsZero() && dateKey(c.Date) == dateKey(date)
}
func (Other) Covers(time.Time) bool { return false }

func (p PaidLeave) Span() (time.Time, time.Time, bool)            { return p.Range.span() }
func (p UnpaidLeave) Span() (time.Time, time.Time, bool)          { return p.Range.span() }
func (p MaternityLeave) Span() (time.Time, time.Time, bool)       { return p.Range.span() }
func (p LateExemption) Span() (time.Time, time.Time, bool)        { return p.Range.span() }
func (p PostMaternityBenefit) Span() (time.Time, time.Time, bool) { return p.Range.span() }
func (o OvertimeWork) Span() (time.Time, time.Time, bool) {
	var from, to time.Time
	for _, w := range o.Windows {
		if !w.Valid() {
			continue
		}
		if from.IsZero() || w.Date.Before(from) {
			from = w.Date
		}
		if to.IsZero() || w.Date.After(to) {
			to = w.Date
		}
	}
	return from, to, !from.IsZero()
}
func (c TimesheetComplaint) Span() (time.Time, time.Time, bool) {
	return c.Date, c.Date, !c.Date.IsZero()
}
func (Other) Span() (time.Time, time.Time, bool) { return time.Time{}, time.Time{}, false }

func (PaidLeave) sealed()            {}
func (UnpaidLeave) sealed()          {}
func (MaternityLeave) sealed()       {}
func (LateExemption) sealed()        {}
func (PostMaternityBenefit) sealed() {}
func (OvertimeWork) sealed()         {}
func (TimesheetComplaint) sealed()   {}
func (Other) sealed()                {}

// ApprovedOn keeps the approved proposals that cover date.
func ApprovedOn(proposals []Proposal, date time.Time) []Proposal {
	out := make([]Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.Meta().IsApproved() && p.Covers(date) {
			out = append(out, p)
		}
	}
	return out
}

func dateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
