package contract

import (
	"context"
	"time"
)

type ContractRepository interface {
	// ListByEmployee returns the employee's contracts, most recent effective date first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Contract, error)
}

type ExemptionRepository interface {
	// ListByEmployee returns the employee's attendance exemptions.
	ListByEmployee(ctx context.Context, employeeID string) ([]AttendanceExemption, error)
}

// ActiveOn picks the contract in force on date, preferring the latest effective date.
func ActiveOn(contracts []Contract, date time.Time) *Contract {
	var found *Contract
	for i := range contracts {
		c := contracts[i]
		if !c.IsInForce(date) {
			continue
		}
		if found == nil || c.EffectiveDate.After(found.EffectiveDate) {
			found = &contracts[i]
		}
	}
	return found
}
