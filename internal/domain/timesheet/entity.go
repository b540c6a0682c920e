package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOnTime      Status = "on_time"
	StatusNotOnTime   Status = "not_on_time"
	StatusAbsent      Status = "absent"
	StatusSinglePunch Status = "single_punch"
)

type AbsentReason string

const (
	AbsentReasonPaidLeave      AbsentReason = "paid_leave"
	AbsentReasonUnpaidLeave    AbsentReason = "unpaid_leave"
	AbsentReasonMaternityLeave AbsentReason = "maternity_leave"
	AbsentReasonPublicHoliday  AbsentReason = "public_holiday"
	AbsentReasonUnexcused      AbsentReason = "unexcused"
)

var AbsentReasonValues = []AbsentReason{
	AbsentReasonPaidLeave,
	AbsentReasonUnpaidLeave,
	AbsentReasonMaternityLeave,
	AbsentReasonPublicHoliday,
	AbsentReasonUnexcused,
}

// Entry is the timesheet of one employee on one date.
type Entry struct {
	ID         string
	EmployeeID string
	Date       time.Time

	// Raw punches. IsManuallyCorrected freezes them against automatic attendance updates.
	StartTime           *time.Time
	EndTime             *time.Time
	IsManuallyCorrected bool

	MorningHours     decimal.Decimal
	AfternoonHours   decimal.Decimal
	OfficialHours    decimal.Decimal
	OTTC1Hours       decimal.Decimal
	OTTC2Hours       decimal.Decimal
	OTTC3Hours       decimal.Decimal
	OvertimeHours    decimal.Decimal
	TotalWorkedHours decimal.Decimal

	// Snapshot
	DayType             calendar.DayType
	ContractID          *string
	WageRate            decimal.Decimal
	IsFullSalary        bool
	IsExempt            bool
	AllowedLateMinutes  int
	ApprovedOTStartTime *time.Time
	ApprovedOTEndTime   *time.Time
	ApprovedOTMinutes   int

	Status            *Status
	AbsentReason      *AbsentReason
	LateMinutes       int
	EarlyMinutes      int
	IsPunished        bool
	WorkingDays       *decimal.Decimal
	CompensationValue decimal.Decimal
	PaidLeaveDays     decimal.Decimal

	// IsClosed marks a day closed explicitly, which finalizes it even when it is today.
	IsClosed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntry returns an empty entry for the date with the snapshot defaults.
func NewEntry(employeeID string, date time.Time) Entry {
	return Entry{
		EmployeeID:   employeeID,
		Date:         date,
		DayType:      calendar.DayTypeOfficial,
		WageRate:     DefaultWageRate,
		IsFullSalary: true,
	}
}

func (e Entry) HasBothPunches() bool {
	return e.StartTime != nil && e.EndTime != nil
}

func (e Entry) IsSinglePunch() bool {
	return (e.StartTime == nil) != (e.EndTime == nil)
}

// ApplySnapshot copies the point-in-time facts onto the entry.
func (e *Entry) ApplySnapshot(s Snapshot) {
	e.DayType = s.DayType
	e.ContractID = s.ContractID
	e.WageRate = s.WageRate
	e.IsFullSalary = s.IsFullSalary
	e.IsExempt = s.IsExempt
}

// ApplyComputation copies the calculated outcome onto the entry.
func (e *Entry) ApplyComputation(c Computation) {
	e.MorningHours = c.MorningHours
	e.AfternoonHours = c.AfternoonHours
	e.OfficialHours = c.OfficialHours
	e.OTTC1Hours = c.OTTC1Hours
	e.OTTC2Hours = c.OTTC2Hours
	e.OTTC3Hours = c.OTTC3Hours
	e.OvertimeHours = c.OvertimeHours
	e.TotalWorkedHours = c.TotalWorkedHours
	e.AllowedLateMinutes = c.AllowedLateMinutes
	e.ApprovedOTStartTime = c.ApprovedOTStartTime
	e.ApprovedOTEndTime = c.ApprovedOTEndTime
	e.ApprovedOTMinutes = c.ApprovedOTMinutes
	e.Status = c.Status
	e.AbsentReason = c.AbsentReason
	e.LateMinutes = c.LateMinutes
	e.EarlyMinutes = c.EarlyMinutes
	e.IsPunished = c.IsPunished
	e.WorkingDays = c.WorkingDays
	e.CompensationValue = c.CompensationValue
	e.PaidLeaveDays = c.PaidLeaveDays
}

// MonthlyTimesheet is the per-month summary of an employee, unique per (EmployeeID, MonthKey).
type MonthlyTimesheet struct {
	ID         string
	EmployeeID string
	MonthKey   string

	ProbationWorkingDays decimal.Decimal
	OfficialWorkingDays  decimal.Decimal
	TotalWorkingDays     decimal.Decimal

	OfficialHours    decimal.Decimal
	OvertimeHours    decimal.Decimal
	TotalWorkedHours decimal.Decimal

	PaidLeaveDays      int
	UnpaidLeaveDays    int
	MaternityLeaveDays int
	PublicHolidayDays  int
	UnexcusedDays      int

	TotalLateMinutes  int
	TotalEarlyMinutes int
	PunishedDays      int
	SinglePunchDays   int
	CompensatoryDebt  decimal.Decimal

	CarriedOverLeave        decimal.Decimal
	OpeningBalanceLeaveDays decimal.Decimal
	GeneratedLeaveDays      decimal.Decimal
	ConsumedLeaveDays       decimal.Decimal
	RemainingLeaveDays      decimal.Decimal

	NeedRefresh bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MonthKey formats a year and month as YYYYMM.
func MonthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("200601")
}

// PreviousMonth returns the month before year/month.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth returns the month after year/month.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
