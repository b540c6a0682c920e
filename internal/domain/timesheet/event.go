package timesheet

import (
	"time"
)

// EventSource names what changed upstream of the timesheet.
type EventSource string

const (
	SourceAttendanceIngested EventSource = "attendance_ingested"
	SourceProposalApproved   EventSource = "proposal_approved"
	SourceProposalRejected   EventSource = "proposal_rejected"
	SourceCalendarChanged    EventSource = "calendar_changed"
	SourceContractChanged    EventSource = "contract_changed"
	SourceScheduleChanged    EventSource = "schedule_changed"
	SourceExemptionChanged   EventSource = "exemption_changed"
	SourceDayClosed          EventSource = "day_closed"
	SourceManual             EventSource = "manual"
)

var EventSourceValues = []string{
	string(SourceAttendanceIngested),
	string(SourceProposalApproved),
	string(SourceProposalRejected),
	string(SourceCalendarChanged),
	string(SourceContractChanged),
	string(SourceScheduleChanged),
	string(SourceExemptionChanged),
	string(SourceDayClosed),
	string(SourceManual),
}

// MaxRecalculationDays bounds the date range of a single event.
const MaxRecalculationDays = 366

// RecalculationEvent asks for every entry of EmployeeID between From and To (inclusive) to be
// snapshotted and calculated again. An empty EmployeeID addresses every active employee.
type RecalculationEvent struct {
	Source     EventSource
	EmployeeID string
	From       time.Time
	To         time.Time
}

func (e RecalculationEvent) Validate() error {
	known := false
	for _, s := range EventSourceValues {
		if string(e.Source) == s {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownEventSource
	}
	if e.From.IsZero() || e.To.IsZero() || e.To.Before(e.From) {
		return ErrInvalidDateRange
	}
	if e.To.Sub(e.From) >= MaxRecalculationDays*24*time.Hour {
		return ErrDateRangeTooLong
	}
	return nil
}

// Closes reports whether entries touched by the event are closed for the day.
func (e RecalculationEvent) Closes() bool {
	return e.Source == SourceDayClosed
}

type RecalculationResult struct {
	Processed int
	Failed    int
}

func (r *RecalculationResult) Add(o RecalculationResult) {
	r.Processed += o.Processed
	r.Failed += o.Failed
}
