package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

var (
	// DefaultWageRate applies when no contract is in force on the date.
	DefaultWageRate = decimal.NewFromInt(100)

	// StandardHoursPerDay converts official hours into working days.
	StandardHoursPerDay = decimal.NewFromInt(8)

	fullDay = decimal.NewFromInt(1)
)

// Snapshot holds the configuration captured for one employee and date before any calculation.
type Snapshot struct {
	EmployeeID string
	Date       time.Time

	DayType      calendar.DayType
	Compensatory *calendar.CompensatoryWorkday

	// Schedule is the effective schedule of the date, nil when the weekday has none.
	// On compensatory dates its required shifts follow the compensatory session.
	Schedule *schedule.WorkSchedule

	ContractID      *string
	WageRate        decimal.Decimal
	IsFullSalary    bool
	AnnualLeaveDays decimal.Decimal
	IsExempt        bool
}

// HasRequirement reports whether attendance is expected on the date.
func (s Snapshot) HasRequirement() bool {
	switch s.DayType {
	case calendar.DayTypeCompensatory:
		return true
	case calendar.DayTypeHoliday:
		return false
	}
	return s.Schedule != nil && s.Schedule.MaxWorkingDays().IsPositive()
}

// ScheduleMax is the most working-day credit the date can earn.
func (s Snapshot) ScheduleMax() decimal.Decimal {
	if s.Schedule == nil {
		return fullDay
	}
	limit := s.Schedule.MaxWorkingDays()
	if !limit.IsPositive() {
		return fullDay
	}
	return limit
}

// Computation is the calculated outcome for an entry, assembled onto it with ApplyComputation.
type Computation struct {
	MorningHours     decimal.Decimal
	AfternoonHours   decimal.Decimal
	OfficialHours    decimal.Decimal
	OTTC1Hours       decimal.Decimal
	OTTC2Hours       decimal.Decimal
	OTTC3Hours       decimal.Decimal
	OvertimeHours    decimal.Decimal
	TotalWorkedHours decimal.Decimal

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
}
