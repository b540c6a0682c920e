package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
)

type contractRepositoryImpl struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepositoryImpl{db: db}
}

// ListByEmployee implements contract.ContractRepository.
func (r *contractRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, status, effective_date, expiration_date,
			   wage_rate, net_percentage, annual_leave_days,
			   created_at, updated_at
		FROM contracts
		WHERE employee_id = $1
		ORDER BY effective_date DESC
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts := make([]contract.Contract, 0)
	for rows.Next() {
		var (
			c             contract.Contract
			status        string
			netPercentage string
		)
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &status, &c.EffectiveDate, &c.ExpirationDate,
			&c.WageRate, &netPercentage, &c.AnnualLeaveDays,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		c.Status = contract.Status(status)
		c.NetPercentage = contract.NetPercentage(netPercentage)
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

type exemptionRepositoryImpl struct {
	db *database.DB
}

func NewExemptionRepository(db *database.DB) contract.ExemptionRepository {
	return &exemptionRepositoryImpl{db: db}
}

// ListByEmployee implements contract.ExemptionRepository.
func (r *exemptionRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]contract.AttendanceExemption, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, effective_date, created_at
		FROM attendance_exemptions
		WHERE employee_id = $1
		ORDER BY effective_date NULLS FIRST
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance exemptions: %w", err)
	}
	defer rows.Close()

	exemptions := make([]contract.AttendanceExemption, 0)
	for rows.Next() {
		var e contract.AttendanceExemption
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.EffectiveDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance exemption: %w", err)
		}
		exemptions = append(exemptions, e)
	}
	return exemptions, rows.Err()
}
