package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
)

// DayFlags is what the approved proposals of one date mean to the calculator.
type DayFlags struct {
	FullDayLeave   *timesheet.AbsentReason
	MorningLeave   *timesheet.AbsentReason
	AfternoonLeave *timesheet.AbsentReason

	LateExemptionMinutes int
	MaternityBenefit     bool

	Overtime *OvertimeApproval
}

// OvertimeApproval merges every approved overtime window of a date.
type OvertimeApproval struct {
	Window  interval.Window
	Minutes int
}

// FoldProposals reduces the proposals that are approved and cover date into DayFlags.
// Overtime windows are placed on date's location.
func FoldProposals(date time.Time, proposals []proposal.Proposal) DayFlags {
	var flags DayFlags
	for _, p := range proposal.ApprovedOn(proposals, date) {
		switch v := p.(type) {
		case proposal.PaidLeave:
			flags.addLeave(timesheet.AbsentReasonPaidLeave, v.Session)
		case proposal.UnpaidLeave:
			flags.addLeave(timesheet.AbsentReasonUnpaidLeave, v.Session)
		case proposal.MaternityLeave:
			flags.addLeave(timesheet.AbsentReasonMaternityLeave, schedule.SessionFullDay)
		case proposal.LateExemption:
			flags.LateExemptionMinutes = max(flags.LateExemptionMinutes, v.Minutes)
		case proposal.PostMaternityBenefit:
			flags.MaternityBenefit = true
		case proposal.OvertimeWork:
			for _, w := range v.WindowsOn(date) {
				flags.addOvertime(w.On(date.Location()), w.Minutes())
			}
		case proposal.TimesheetComplaint:
			// Applied to the punches when executed.
		case proposal.Other:
		}
	}
	return flags
}

// leaveRank orders competing leave reasons for the same part of a day.
var leaveRank = map[timesheet.AbsentReason]int{
	timesheet.AbsentReasonPaidLeave:      3,
	timesheet.AbsentReasonMaternityLeave: 2,
	timesheet.AbsentReasonUnpaidLeave:    1,
}

func (f *DayFlags) addLeave(reason timesheet.AbsentReason, session schedule.Session) {
	switch session {
	case schedule.SessionMorning:
		f.MorningLeave = pickLeave(f.MorningLeave, reason)
	case schedule.SessionAfternoon:
		f.AfternoonLeave = pickLeave(f.AfternoonLeave, reason)
	default:
		f.FullDayLeave = pickLeave(f.FullDayLeave, reason)
	}
}

func pickLeave(current *timesheet.AbsentReason, reason timesheet.AbsentReason) *timesheet.AbsentReason {
	if current != nil && leaveRank[*current] >= leaveRank[reason] {
		return current
	}
	return &reason
}

func (f *DayFlags) addOvertime(w interval.Window, minutes int) {
	if f.Overtime == nil {
		f.Overtime = &OvertimeApproval{Window: w, Minutes: minutes}
		return
	}
	hull := f.Overtime.Window
	if w.Start.Before(hull.Start) {
		hull.Start = w.Start
	}
	if w.End.After(hull.End) {
		hull.End = w.End
	}
	f.Overtime.Window = hull
	f.Overtime.Minutes += minutes
}

// withoutLeave drops leave on dates that require no attendance.
func (f DayFlags) withoutLeave() DayFlags {
	f.FullDayLeave = nil
	f.MorningLeave = nil
	f.AfternoonLeave = nil
	return f
}
