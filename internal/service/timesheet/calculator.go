package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

var (
	maternityBonus = interval.MustDecimal("0.125")
	two            = decimal.NewFromInt(2)
)

// maternityGraceMinutes is the lateness allowance while a post-maternity benefit is active.
const maternityGraceMinutes = 60

// Input is everything the calculator needs about one entry besides proposals.
type Input struct {
	Snapshot  timesheet.Snapshot
	StartTime *time.Time
	EndTime   *time.Time

	// Hours currently on the entry. They are kept when the punches are incomplete,
	// so manually entered hours survive a recalculation.
	MorningHours   decimal.Decimal
	AfternoonHours decimal.Decimal

	Finalizing bool
	Today      time.Time
}

// InputFromEntry builds the calculator input from a stored entry and a fresh snapshot.
func InputFromEntry(e timesheet.Entry, snap timesheet.Snapshot, finalizing bool, today time.Time) Input {
	return Input{
		Snapshot:       snap,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		MorningHours:   e.MorningHours,
		AfternoonHours: e.AfternoonHours,
		Finalizing:     finalizing,
		Today:          today,
	}
}

// Calculator turns a snapshot and the approved proposals of a date into a timesheet.Computation.
// It holds no state between calls; the same input always yields the same output.
type Calculator struct {
	standardHours decimal.Decimal
}

func NewCalculator(standardHoursPerDay int) *Calculator {
	hours := timesheet.StandardHoursPerDay
	if standardHoursPerDay > 0 {
		hours = decimal.NewFromInt(int64(standardHoursPerDay))
	}
	return &Calculator{standardHours: hours}
}

func (c *Calculator) Calculate(in Input, proposals []proposal.Proposal) timesheet.Computation {
	flags := FoldProposals(in.Snapshot.Date, proposals)
	if !in.Snapshot.HasRequirement() {
		flags = flags.withoutLeave()
	}

	r := &run{
		calc:  c,
		in:    in,
		snap:  in.Snapshot,
		flags: flags,
		out: timesheet.Computation{
			MorningHours:   in.MorningHours,
			AfternoonHours: in.AfternoonHours,
		},
	}
	r.capture()

	if !r.exemption() {
		r.baseHours()
		r.overtime()
		r.totals()
		r.penalties()
		r.status()
		r.workingDays()
	}
	r.totals()
	return r.out
}

type run struct {
	calc  *Calculator
	in    Input
	snap  timesheet.Snapshot
	flags DayFlags
	out   timesheet.Computation
}

func (r *run) schedule() *schedule.WorkSchedule { return r.snap.Schedule }

func (r *run) morningRequired() bool {
	return r.schedule() != nil && r.schedule().MorningRequired()
}

func (r *run) afternoonRequired() bool {
	return r.schedule() != nil && r.schedule().AfternoonRequired()
}

func (r *run) morningExcused() bool {
	return r.morningRequired() && (r.flags.FullDayLeave != nil || r.flags.MorningLeave != nil)
}

func (r *run) afternoonExcused() bool {
	return r.afternoonRequired() && (r.flags.FullDayLeave != nil || r.flags.AfternoonLeave != nil)
}

func (r *run) requiredHalves() int {
	return boolCount(r.morningRequired(), r.afternoonRequired())
}

func (r *run) excusedHalves() int {
	return boolCount(r.morningExcused(), r.afternoonExcused())
}

// partialCredit is half a day for every required half excused by a paid half-day leave.
func (r *run) partialCredit() decimal.Decimal {
	if r.flags.FullDayLeave != nil {
		return decimal.Zero
	}
	paid := boolCount(
		r.morningRequired() && isPaid(r.flags.MorningLeave),
		r.afternoonRequired() && isPaid(r.flags.AfternoonLeave),
	)
	return schedule.HalfDay().Mul(decimal.NewFromInt(int64(paid)))
}

func (r *run) bothPunches() bool {
	return r.in.StartTime != nil && r.in.EndTime != nil
}

func (r *run) singlePunch() bool {
	return (r.in.StartTime == nil) != (r.in.EndTime == nil)
}

// capture records the proposal-derived facts that are stored on the entry.
func (r *run) capture() {
	grace := 0
	if ws := r.schedule(); ws != nil {
		grace = ws.AllowedLateMinutes
	}
	grace = max(grace, r.flags.LateExemptionMinutes)
	if r.flags.MaternityBenefit {
		grace = max(grace, maternityGraceMinutes)
	}
	r.out.AllowedLateMinutes = grace

	if ot := r.flags.Overtime; ot != nil {
		start, end := ot.Window.Start, ot.Window.End
		r.out.ApprovedOTStartTime = &start
		r.out.ApprovedOTEndTime = &end
		r.out.ApprovedOTMinutes = ot.Minutes
	}

	switch {
	case isPaid(r.flags.FullDayLeave):
		r.out.PaidLeaveDays = r.snap.ScheduleMax()
	default:
		r.out.PaidLeaveDays = r.partialCredit()
	}
}

// exemption short-circuits exempt employees. It reports whether the calculation is done.
func (r *run) exemption() bool {
	if !r.snap.IsExempt {
		return false
	}
	if afterDay(r.snap.Date, r.in.Today) {
		r.out.Status = nil
		r.out.WorkingDays = nil
		return true
	}

	onTime := timesheet.StatusOnTime
	r.out.Status = &onTime
	r.out.AbsentReason = nil
	r.out.LateMinutes = 0
	r.out.EarlyMinutes = 0
	r.out.IsPunished = false
	if r.in.Finalizing {
		wd := interval.Quantize(r.snap.ScheduleMax())
		r.out.WorkingDays = &wd
	}
	return true
}

func (r *run) baseHours() {
	if !r.bothPunches() {
		return
	}
	worked := interval.New(*r.in.StartTime, *r.in.EndTime)
	r.out.MorningHours = decimal.Zero
	r.out.AfternoonHours = decimal.Zero

	ws := r.schedule()
	if ws == nil {
		return
	}
	if w, ok := ws.MorningWindow(r.snap.Date); ok {
		r.out.MorningHours = interval.Hours(worked.Overlap(w))
	}
	if w, ok := ws.AfternoonWindow(r.snap.Date); ok {
		r.out.AfternoonHours = interval.Hours(worked.Overlap(w))
	}
}

func (r *run) resetOvertime() {
	r.out.OTTC1Hours = decimal.Zero
	r.out.OTTC2Hours = decimal.Zero
	r.out.OTTC3Hours = decimal.Zero
	r.out.OvertimeHours = decimal.Zero
}

func (r *run) overtime() {
	r.resetOvertime()
	ot := r.flags.Overtime
	if !r.bothPunches() || ot == nil || ot.Minutes <= 0 || r.schedule() == nil {
		return
	}

	worked := interval.New(*r.in.StartTime, *r.in.EndTime)
	common, ok := worked.Intersect(ot.Window)
	if !ok {
		return
	}

	net := common.Duration()
	if r.snap.DayType == calendar.DayTypeOfficial {
		for _, shift := range r.requiredShifts() {
			net -= common.Overlap(shift)
		}
	}
	if net <= 0 {
		return
	}

	hours := interval.RawHours(net)
	if limit := interval.HoursFromMinutes(ot.Minutes); hours.GreaterThan(limit) {
		hours = limit
	}
	hours = interval.Quantize(hours)
	if !hours.IsPositive() {
		return
	}

	switch {
	case r.snap.DayType == calendar.DayTypeHoliday:
		r.out.OTTC3Hours = hours
	case r.snap.Date.Weekday() == time.Sunday && r.snap.DayType != calendar.DayTypeCompensatory:
		r.out.OTTC2Hours = hours
	default:
		r.out.OTTC1Hours = hours
	}
	r.out.OvertimeHours = hours
}

func (r *run) requiredShifts() []interval.Window {
	ws := r.schedule()
	var shifts []interval.Window
	if r.morningRequired() {
		if w, ok := ws.MorningWindow(r.snap.Date); ok {
			shifts = append(shifts, w)
		}
	}
	if r.afternoonRequired() {
		if w, ok := ws.AfternoonWindow(r.snap.Date); ok {
			shifts = append(shifts, w)
		}
	}
	return shifts
}

func (r *run) totals() {
	r.out.OfficialHours = r.out.MorningHours.Add(r.out.AfternoonHours)
	r.out.TotalWorkedHours = r.out.OfficialHours.Add(r.out.OvertimeHours)
}

// expectedBounds returns the first start and last end among required shifts that are not excused.
func (r *run) expectedBounds() (*time.Time, *time.Time) {
	ws := r.schedule()
	var morning, afternoon *interval.Window
	if r.morningRequired() && !r.morningExcused() {
		if w, ok := ws.MorningWindow(r.snap.Date); ok {
			morning = &w
		}
	}
	if r.afternoonRequired() && !r.afternoonExcused() {
		if w, ok := ws.AfternoonWindow(r.snap.Date); ok {
			afternoon = &w
		}
	}

	var start, end *time.Time
	switch {
	case morning != nil:
		start = &morning.Start
	case afternoon != nil:
		start = &afternoon.Start
	}
	switch {
	case afternoon != nil:
		end = &afternoon.End
	case morning != nil:
		end = &morning.End
	}
	return start, end
}

func (r *run) penalties() {
	r.out.LateMinutes = 0
	r.out.EarlyMinutes = 0
	r.out.IsPunished = false

	if r.in.StartTime == nil && r.in.EndTime == nil {
		return
	}
	if r.schedule() == nil || r.snap.DayType == calendar.DayTypeHoliday {
		return
	}

	expectedStart, expectedEnd := r.expectedBounds()
	if r.in.StartTime != nil && expectedStart != nil {
		if late := r.in.StartTime.Sub(*expectedStart); late > 0 {
			r.out.LateMinutes = interval.Minutes(late)
		}
	}
	if r.in.EndTime != nil && expectedEnd != nil {
		if early := expectedEnd.Sub(*r.in.EndTime); early > 0 {
			r.out.EarlyMinutes = interval.Minutes(early)
		}
	}
	r.out.IsPunished = r.out.LateMinutes+r.out.EarlyMinutes > r.out.AllowedLateMinutes
}

func (r *run) setStatus(s timesheet.Status, reason *timesheet.AbsentReason) {
	r.out.Status = &s
	r.out.AbsentReason = reason
}

func (r *run) punctuality() {
	if r.out.IsPunished {
		r.setStatus(timesheet.StatusNotOnTime, nil)
		return
	}
	r.setStatus(timesheet.StatusOnTime, nil)
}

func (r *run) status() {
	r.out.Status = nil
	r.out.AbsentReason = nil

	switch {
	case r.singlePunch():
		if r.in.Finalizing {
			r.setStatus(timesheet.StatusSinglePunch, nil)
			return
		}
		r.punctuality()
	case r.bothPunches():
		r.punctuality()
	default:
		r.noPunchStatus()
	}
}

func (r *run) noPunchStatus() {
	if r.snap.DayType == calendar.DayTypeHoliday {
		reason := timesheet.AbsentReasonPublicHoliday
		r.out.AbsentReason = &reason
		return
	}
	if !r.snap.HasRequirement() {
		return
	}
	if r.flags.FullDayLeave != nil {
		r.setStatus(timesheet.StatusAbsent, r.flags.FullDayLeave)
		return
	}

	if r.in.Finalizing {
		excused := r.excusedHalves()
		if excused > 0 && excused == r.requiredHalves() {
			r.out.AbsentReason = r.halfDayReason()
			return
		}
		if excused == 1 && !r.out.OfficialHours.IsPositive() {
			reason := r.halfDayReason()
			if reason == nil {
				reason = ptr(timesheet.AbsentReasonUnexcused)
			}
			r.setStatus(timesheet.StatusAbsent, reason)
			return
		}
	}

	switch {
	case r.out.OfficialHours.IsPositive():
		r.punctuality()
	case r.in.Finalizing:
		r.setStatus(timesheet.StatusAbsent, ptr(timesheet.AbsentReasonUnexcused))
	}
}

// halfDayReason is the leave reason of the first excused half.
func (r *run) halfDayReason() *timesheet.AbsentReason {
	if r.morningExcused() && r.flags.MorningLeave != nil {
		return r.flags.MorningLeave
	}
	if r.afternoonExcused() && r.flags.AfternoonLeave != nil {
		return r.flags.AfternoonLeave
	}
	return nil
}

func (r *run) workingDays() {
	r.out.WorkingDays = nil
	r.out.CompensationValue = decimal.Zero
	if !r.in.Finalizing {
		return
	}

	limit := r.snap.ScheduleMax()
	compensatory := r.snap.DayType == calendar.DayTypeCompensatory
	var wd decimal.Decimal

	switch {
	case r.snap.DayType == calendar.DayTypeHoliday:
		wd = limit
	case isPaid(r.flags.FullDayLeave):
		wd = limit
	case r.out.Status != nil && *r.out.Status == timesheet.StatusAbsent:
		if credit := r.partialCredit(); credit.IsPositive() {
			wd = credit
		} else if compensatory {
			wd = limit.Neg()
			r.out.CompensationValue = interval.Quantize(wd)
		}
	default:
		wd = r.out.OfficialHours.Div(r.calc.standardHours).Add(r.partialCredit())
		if r.flags.MaternityBenefit && r.bothPunches() {
			wd = wd.Add(maternityBonus)
		}
		if r.singlePunch() {
			excused := schedule.HalfDay().Mul(decimal.NewFromInt(int64(r.excusedHalves())))
			wd = limit.Sub(excused).Div(two).Add(r.partialCredit())
			r.resetOvertime()
		}
		if wd.GreaterThan(limit) {
			wd = limit
		}
		if compensatory {
			wd = wd.Sub(limit)
			r.out.CompensationValue = interval.Quantize(wd)
		}
	}

	wd = interval.Quantize(wd)
	r.out.WorkingDays = &wd
}

func isPaid(reason *timesheet.AbsentReason) bool {
	return reason != nil && *reason == timesheet.AbsentReasonPaidLeave
}

func boolCount(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}

// afterDay reports whether a falls on a later calendar date than b, compared in a's location.
func afterDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
