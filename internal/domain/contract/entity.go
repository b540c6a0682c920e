package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft         Status = "draft"
	StatusActive        Status = "active"
	StatusAboutToExpire Status = "about_to_expire"
	StatusExpired       Status = "expired"
	StatusTerminated    Status = "terminated"
)

// NetPercentage tells whether the contract pays the full salary or a reduced (probation) share.
type NetPercentage string

const (
	NetPercentageFull    NetPercentage = "full"
	NetPercentageReduced NetPercentage = "reduced"
)

// Contract is a wage contract of an employee.
type Contract struct {
	ID              string
	EmployeeID      string
	Status          Status
	EffectiveDate   time.Time
	ExpirationDate  *time.Time
	WageRate        decimal.Decimal
	NetPercentage   NetPercentage
	AnnualLeaveDays decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsInForce reports whether the contract is active on date.
func (c Contract) IsInForce(date time.Time) bool {
	if c.Status != StatusActive && c.Status != StatusAboutToExpire {
		return false
	}
	d := dateOnly(date)
	if dateOnly(c.EffectiveDate).After(d) {
		return false
	}
	if c.ExpirationDate != nil && dateOnly(*c.ExpirationDate).Before(d) {
		return false
	}
	return true
}

// AttendanceExemption releases an employee from punch-based attendance from EffectiveDate on.
// A nil EffectiveDate means the exemption has always applied.
type AttendanceExemption struct {
	ID            string
	EmployeeID    string
	EffectiveDate *time.Time
	CreatedAt     time.Time
}

func (e AttendanceExemption) AppliesOn(date time.Time) bool {
	return e.EffectiveDate == nil || !dateOnly(*e.EffectiveDate).After(dateOnly(date))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
