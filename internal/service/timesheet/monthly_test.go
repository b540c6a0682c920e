package timesheet

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return interval.MustDecimal(s)
}

func entryWith(date time.Time, fullSalary bool, wd string, official, overtime string) timesheet.Entry {
	e := timesheet.NewEntry(employeeA, date)
	e.IsFullSalary = fullSalary
	if wd != "" {
		v := dec(wd)
		e.WorkingDays = &v
	}
	e.OfficialHours = dec(official)
	e.OvertimeHours = dec(overtime)
	e.TotalWorkedHours = e.OfficialHours.Add(e.OvertimeHours)
	return e
}

func TestAggregate(t *testing.T) {
	paid := timesheet.AbsentReasonPaidLeave
	holiday := timesheet.AbsentReasonPublicHoliday
	unexcused := timesheet.AbsentReasonUnexcused
	single := timesheet.StatusSinglePunch

	probation := entryWith(day(2024, time.March, 1), false, "1.00", "8", "0")
	regular := entryWith(day(2024, time.March, 4), true, "0.85", "6.83", "2")
	regular.LateMinutes = 70
	regular.IsPunished = true

	leave := entryWith(day(2024, time.March, 5), true, "1.00", "0", "0")
	leave.AbsentReason = &paid
	leave.PaidLeaveDays = dec("1")

	halfLeave := entryWith(day(2024, time.March, 6), true, "0.50", "0", "0")
	halfLeave.AbsentReason = &paid
	halfLeave.PaidLeaveDays = dec("0.5")

	missed := entryWith(day(2024, time.March, 7), true, "0.00", "0", "0")
	missed.AbsentReason = &unexcused

	publicHoliday := entryWith(day(2024, time.March, 11), true, "1.00", "0", "0")
	publicHoliday.AbsentReason = &holiday

	punch := entryWith(day(2024, time.March, 12), true, "0.50", "0", "0")
	punch.Status = &single
	punch.EarlyMinutes = 5

	debt := entryWith(day(2024, time.March, 17), true, "-1.00", "0", "0")
	debt.CompensationValue = dec("-1")

	preview := entryWith(day(2024, time.March, 18), true, "", "4", "0")

	m := Aggregate(employeeA, "202403", []timesheet.Entry{probation, regular, leave, halfLeave, missed, publicHoliday, punch, debt, preview})

	assert.Equal(t, employeeA, m.EmployeeID)
	assert.Equal(t, "202403", m.MonthKey)
	assertDecimal(t, "1.00", m.ProbationWorkingDays)
	assertDecimal(t, "2.85", m.OfficialWorkingDays)
	assertDecimal(t, "3.85", m.TotalWorkingDays)
	assertDecimal(t, "18.83", m.OfficialHours)
	assertDecimal(t, "2.00", m.OvertimeHours)
	assertDecimal(t, "20.83", m.TotalWorkedHours)
	assert.Equal(t, 2, m.PaidLeaveDays)
	assert.Equal(t, 1, m.PublicHolidayDays)
	assert.Equal(t, 1, m.UnexcusedDays)
	assert.Equal(t, 0, m.UnpaidLeaveDays)
	assertDecimal(t, "1.50", m.ConsumedLeaveDays)
	assert.Equal(t, 70, m.TotalLateMinutes)
	assert.Equal(t, 5, m.TotalEarlyMinutes)
	assert.Equal(t, 1, m.PunishedDays)
	assert.Equal(t, 1, m.SinglePunchDays)
	assertDecimal(t, "-1.00", m.CompensatoryDebt)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(employeeA, "202402", nil)

	assertDecimal(t, "0.00", m.TotalWorkingDays)
	assertDecimal(t, "0.00", m.TotalWorkedHours)
	assert.Equal(t, 0, m.PaidLeaveDays)
}

func balanceRow(carried, opening, consumed, remaining string) *timesheet.MonthlyTimesheet {
	return &timesheet.MonthlyTimesheet{
		CarriedOverLeave:        dec(carried),
		OpeningBalanceLeaveDays: dec(opening),
		ConsumedLeaveDays:       dec(consumed),
		RemainingLeaveDays:      dec(remaining),
	}
}

func TestRollover(t *testing.T) {
	t.Run("january carries december over", func(t *testing.T) {
		b := Rollover(RolloverInput{
			Month:     time.January,
			Previous:  balanceRow("0", "6", "1", "5"),
			Generated: dec("1"),
			Consumed:  dec("0.5"),
		})

		assertDecimal(t, "5.00", b.CarriedOver)
		assertDecimal(t, "0.00", b.Opening)
		assertDecimal(t, "5.50", b.Remaining)
	})

	t.Run("ordinary month opens with previous remaining", func(t *testing.T) {
		b := Rollover(RolloverInput{
			Month:     time.February,
			Previous:  balanceRow("5", "0", "0.5", "5.5"),
			Generated: dec("1"),
			Consumed:  dec("2"),
		})

		assertDecimal(t, "0.00", b.CarriedOver)
		assertDecimal(t, "5.50", b.Opening)
		assertDecimal(t, "4.50", b.Remaining)
	})

	t.Run("april expires unused carry-over", func(t *testing.T) {
		// 5 days carried in January, 3 consumed by March: 2 expire.
		b := Rollover(RolloverInput{
			Month:                time.April,
			Previous:             balanceRow("0", "4", "1", "6"),
			January:              balanceRow("5", "0", "1", "5"),
			ConsumedFirstQuarter: dec("3"),
			Generated:            dec("1"),
		})

		assertDecimal(t, "0.00", b.CarriedOver)
		assertDecimal(t, "4.00", b.Opening)
		assertDecimal(t, "5.00", b.Remaining)
	})

	t.Run("april with carry-over fully used", func(t *testing.T) {
		b := Rollover(RolloverInput{
			Month:                time.April,
			Previous:             balanceRow("0", "2", "1", "2"),
			January:              balanceRow("3", "0", "1", "2"),
			ConsumedFirstQuarter: dec("4"),
		})

		assertDecimal(t, "2.00", b.Opening)
	})

	t.Run("balance never goes negative", func(t *testing.T) {
		b := Rollover(RolloverInput{
			Month:    time.May,
			Previous: balanceRow("0", "1", "0", "1"),
			Consumed: dec("3"),
		})

		assertDecimal(t, "0.00", b.Remaining)
	})

	t.Run("missing previous month counts as zero", func(t *testing.T) {
		b := Rollover(RolloverInput{Month: time.January, Generated: dec("1.17")})

		assertDecimal(t, "0.00", b.CarriedOver)
		assertDecimal(t, "1.17", b.Remaining)
	})
}

func TestGeneratedLeave(t *testing.T) {
	contracts := []contract.Contract{
		{
			ID: "c-1", EmployeeID: employeeA, Status: contract.StatusActive,
			EffectiveDate:   day(2024, time.January, 1),
			AnnualLeaveDays: decimal.NewFromInt(14),
		},
	}

	assertDecimal(t, "1.17", GeneratedLeave(contracts, 2024, time.March))

	midMonth := []contract.Contract{
		{
			ID: "c-2", EmployeeID: employeeA, Status: contract.StatusActive,
			EffectiveDate:   day(2024, time.March, 15),
			AnnualLeaveDays: decimal.NewFromInt(12),
		},
	}
	assertDecimal(t, "0.00", GeneratedLeave(midMonth, 2024, time.March))
	assertDecimal(t, "1.00", GeneratedLeave(midMonth, 2024, time.April))
	assertDecimal(t, "0.00", GeneratedLeave(nil, 2024, time.April))
}
