package timesheet

import (
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Aggregate sums a month of entries into a summary row. Leave balances are left for Rollover.
// Leave-day counts are distinct dates per absent reason.
func Aggregate(employeeID, monthKey string, entries []timesheet.Entry) timesheet.MonthlyTimesheet {
	m := timesheet.MonthlyTimesheet{
		EmployeeID:           employeeID,
		MonthKey:             monthKey,
		ProbationWorkingDays: decimal.Zero,
		OfficialWorkingDays:  decimal.Zero,
		TotalWorkingDays:     decimal.Zero,
		OfficialHours:        decimal.Zero,
		OvertimeHours:        decimal.Zero,
		TotalWorkedHours:     decimal.Zero,
		CompensatoryDebt:     decimal.Zero,
		ConsumedLeaveDays:    decimal.Zero,
	}

	reasonDates := make(map[timesheet.AbsentReason]map[string]struct{})
	for _, e := range entries {
		m.OfficialHours = m.OfficialHours.Add(e.OfficialHours)
		m.OvertimeHours = m.OvertimeHours.Add(e.OvertimeHours)
		m.TotalWorkedHours = m.TotalWorkedHours.Add(e.TotalWorkedHours)

		if e.WorkingDays != nil {
			if e.IsFullSalary {
				m.OfficialWorkingDays = m.OfficialWorkingDays.Add(*e.WorkingDays)
			} else {
				m.ProbationWorkingDays = m.ProbationWorkingDays.Add(*e.WorkingDays)
			}
		}

		if e.AbsentReason != nil {
			dates, ok := reasonDates[*e.AbsentReason]
			if !ok {
				dates = make(map[string]struct{})
				reasonDates[*e.AbsentReason] = dates
			}
			dates[e.Date.Format("2006-01-02")] = struct{}{}
		}

		m.ConsumedLeaveDays = m.ConsumedLeaveDays.Add(e.PaidLeaveDays)
		m.TotalLateMinutes += e.LateMinutes
		m.TotalEarlyMinutes += e.EarlyMinutes
		if e.IsPunished {
			m.PunishedDays++
		}
		if e.Status != nil && *e.Status == timesheet.StatusSinglePunch {
			m.SinglePunchDays++
		}
		if e.CompensationValue.IsNegative() {
			m.CompensatoryDebt = m.CompensatoryDebt.Add(e.CompensationValue)
		}
	}
	m.TotalWorkingDays = m.OfficialWorkingDays.Add(m.ProbationWorkingDays)

	m.PaidLeaveDays = len(reasonDates[timesheet.AbsentReasonPaidLeave])
	m.UnpaidLeaveDays = len(reasonDates[timesheet.AbsentReasonUnpaidLeave])
	m.MaternityLeaveDays = len(reasonDates[timesheet.AbsentReasonMaternityLeave])
	m.PublicHolidayDays = len(reasonDates[timesheet.AbsentReasonPublicHoliday])
	m.UnexcusedDays = len(reasonDates[timesheet.AbsentReasonUnexcused])
	return m
}
