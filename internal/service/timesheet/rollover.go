package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// LeaveBalance is the leave carried into, earned, and spent within one month.
type LeaveBalance struct {
	CarriedOver decimal.Decimal
	Opening     decimal.Decimal
	Generated   decimal.Decimal
	Consumed    decimal.Decimal
	Remaining   decimal.Decimal
}

// RolloverInput holds the neighbouring months a balance depends on. Missing months count as zero.
type RolloverInput struct {
	Month     time.Month
	Previous  *timesheet.MonthlyTimesheet
	January   *timesheet.MonthlyTimesheet
	Generated decimal.Decimal
	Consumed  decimal.Decimal

	// ConsumedFirstQuarter is the leave consumed from January to March; used in April only.
	ConsumedFirstQuarter decimal.Decimal
}

// Rollover computes the balance of a month.
//
// January carries December's remaining balance forward. In April whatever is left of that
// carry-over expires. Every other month opens with the previous month's remaining balance.
func Rollover(in RolloverInput) LeaveBalance {
	previousRemaining := decimal.Zero
	if in.Previous != nil {
		previousRemaining = in.Previous.RemainingLeaveDays
	}

	b := LeaveBalance{
		CarriedOver: decimal.Zero,
		Opening:     decimal.Zero,
		Generated:   in.Generated,
		Consumed:    in.Consumed,
	}

	switch in.Month {
	case time.January:
		b.CarriedOver = previousRemaining
	case time.April:
		carried := decimal.Zero
		if in.January != nil {
			carried = in.January.CarriedOverLeave
		}
		unused := clampZero(carried.Sub(in.ConsumedFirstQuarter))
		b.Opening = clampZero(previousRemaining.Sub(unused))
	default:
		b.Opening = previousRemaining
	}

	b.Remaining = interval.Quantize(clampZero(
		b.CarriedOver.Add(b.Opening).Add(b.Generated).Sub(b.Consumed),
	))
	return b
}

// Apply writes the balance onto a monthly row.
func (b LeaveBalance) Apply(m *timesheet.MonthlyTimesheet) {
	m.CarriedOverLeave = b.CarriedOver
	m.OpeningBalanceLeaveDays = b.Opening
	m.GeneratedLeaveDays = b.Generated
	m.ConsumedLeaveDays = b.Consumed
	m.RemainingLeaveDays = b.Remaining
}

// GeneratedLeave is the leave accrued in a month: a twelfth of the annual allowance of the contract
// in force at the end of the month, or nothing when that contract started after the 1st.
func GeneratedLeave(contracts []contract.Contract, year int, month time.Month) decimal.Decimal {
	last := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	active := contract.ActiveOn(contracts, last)
	if active == nil {
		return decimal.Zero
	}
	eff := active.EffectiveDate
	if eff.Year() == year && eff.Month() == month && eff.Day() > 1 {
		return decimal.Zero
	}
	return interval.Quantize(active.AnnualLeaveDays.Div(monthsPerYear))
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
