package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const monthlyColumns = `
	id, employee_id, month_key,
	probation_working_days, official_working_days, total_working_days,
	official_hours, overtime_hours, total_worked_hours,
	paid_leave_days, unpaid_leave_days, maternity_leave_days, public_holiday_days, unexcused_days,
	total_late_minutes, total_early_minutes, punished_days, single_punch_days, compensatory_debt,
	carried_over_leave, opening_balance_leave_days, generated_leave_days,
	consumed_leave_days, remaining_leave_days,
	need_refresh, created_at, updated_at`

type monthlyTimesheetRepositoryImpl struct {
	db *database.DB
}

func NewMonthlyTimesheetRepository(db *database.DB) timesheet.MonthlyRepository {
	return &monthlyTimesheetRepositoryImpl{db: db}
}

func scanMonthly(row pgx.Row) (timesheet.MonthlyTimesheet, error) {
	var m timesheet.MonthlyTimesheet
	err := row.Scan(
		&m.ID, &m.EmployeeID, &m.MonthKey,
		&m.ProbationWorkingDays, &m.OfficialWorkingDays, &m.TotalWorkingDays,
		&m.OfficialHours, &m.OvertimeHours, &m.TotalWorkedHours,
		&m.PaidLeaveDays, &m.UnpaidLeaveDays, &m.MaternityLeaveDays, &m.PublicHolidayDays, &m.UnexcusedDays,
		&m.TotalLateMinutes, &m.TotalEarlyMinutes, &m.PunishedDays, &m.SinglePunchDays, &m.CompensatoryDebt,
		&m.CarriedOverLeave, &m.OpeningBalanceLeaveDays, &m.GeneratedLeaveDays,
		&m.ConsumedLeaveDays, &m.RemainingLeaveDays,
		&m.NeedRefresh, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// Get implements timesheet.MonthlyRepository.
func (r *monthlyTimesheetRepositoryImpl) Get(ctx context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + monthlyColumns + `
		FROM monthly_timesheets
		WHERE employee_id = $1 AND month_key = $2
	`
	m, err := scanMonthly(q.QueryRow(ctx, query, employeeID, monthKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.MonthlyTimesheet{}, timesheet.ErrMonthlyTimesheetNotFound
		}
		return timesheet.MonthlyTimesheet{}, fmt.Errorf("failed to get monthly timesheet: %w", err)
	}
	return m, nil
}

// Upsert implements timesheet.MonthlyRepository.
func (r *monthlyTimesheetRepositoryImpl) Upsert(ctx context.Context, m timesheet.MonthlyTimesheet) (timesheet.MonthlyTimesheet, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO monthly_timesheets (
			id, employee_id, month_key,
			probation_working_days, official_working_days, total_working_days,
			official_hours, overtime_hours, total_worked_hours,
			paid_leave_days, unpaid_leave_days, maternity_leave_days, public_holiday_days, unexcused_days,
			total_late_minutes, total_early_minutes, punished_days, single_punch_days, compensatory_debt,
			carried_over_leave, opening_balance_leave_days, generated_leave_days,
			consumed_leave_days, remaining_leave_days,
			need_refresh, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22,
			$23, $24,
			FALSE, NOW(), NOW()
		)
		ON CONFLICT (employee_id, month_key) DO UPDATE SET
			probation_working_days = EXCLUDED.probation_working_days,
			official_working_days = EXCLUDED.official_working_days,
			total_working_days = EXCLUDED.total_working_days,
			official_hours = EXCLUDED.official_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			total_worked_hours = EXCLUDED.total_worked_hours,
			paid_leave_days = EXCLUDED.paid_leave_days,
			unpaid_leave_days = EXCLUDED.unpaid_leave_days,
			maternity_leave_days = EXCLUDED.maternity_leave_days,
			public_holiday_days = EXCLUDED.public_holiday_days,
			unexcused_days = EXCLUDED.unexcused_days,
			total_late_minutes = EXCLUDED.total_late_minutes,
			total_early_minutes = EXCLUDED.total_early_minutes,
			punished_days = EXCLUDED.punished_days,
			single_punch_days = EXCLUDED.single_punch_days,
			compensatory_debt = EXCLUDED.compensatory_debt,
			carried_over_leave = EXCLUDED.carried_over_leave,
			opening_balance_leave_days = EXCLUDED.opening_balance_leave_days,
			generated_leave_days = EXCLUDED.generated_leave_days,
			consumed_leave_days = EXCLUDED.consumed_leave_days,
			remaining_leave_days = EXCLUDED.remaining_leave_days,
			need_refresh = FALSE,
			updated_at = NOW()
		RETURNING ` + monthlyColumns

	saved, err := scanMonthly(q.QueryRow(ctx, query,
		m.ID, m.EmployeeID, m.MonthKey,
		m.ProbationWorkingDays, m.OfficialWorkingDays, m.TotalWorkingDays,
		m.OfficialHours, m.OvertimeHours, m.TotalWorkedHours,
		m.PaidLeaveDays, m.UnpaidLeaveDays, m.MaternityLeaveDays, m.PublicHolidayDays, m.UnexcusedDays,
		m.TotalLateMinutes, m.TotalEarlyMinutes, m.PunishedDays, m.SinglePunchDays, m.CompensatoryDebt,
		m.CarriedOverLeave, m.OpeningBalanceLeaveDays, m.GeneratedLeaveDays,
		m.ConsumedLeaveDays, m.RemainingLeaveDays,
	))
	if err != nil {
		return timesheet.MonthlyTimesheet{}, fmt.Errorf("failed to upsert monthly timesheet: %w", err)
	}
	return saved, nil
}

// LockForRefresh implements timesheet.MonthlyRepository. The no-op update takes the row lock on
// an existing row as well as on a fresh one.
func (r *monthlyTimesheetRepositoryImpl) LockForRefresh(ctx context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_timesheets (id, employee_id, month_key, need_refresh, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		ON CONFLICT (employee_id, month_key) DO UPDATE SET
			need_refresh = monthly_timesheets.need_refresh
		RETURNING ` + monthlyColumns

	m, err := scanMonthly(q.QueryRow(ctx, query, uuid.New().String(), employeeID, monthKey))
	if err != nil {
		return timesheet.MonthlyTimesheet{}, fmt.Errorf("failed to lock monthly timesheet: %w", err)
	}
	return m, nil
}

// MarkNeedRefresh implements timesheet.MonthlyRepository.
func (r *monthlyTimesheetRepositoryImpl) MarkNeedRefresh(ctx context.Context, employeeID, monthKey string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_timesheets (id, employee_id, month_key, need_refresh, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		ON CONFLICT (employee_id, month_key) DO UPDATE SET
			need_refresh = TRUE,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, uuid.New().String(), employeeID, monthKey); err != nil {
		return fmt.Errorf("failed to flag monthly timesheet: %w", err)
	}
	return nil
}

// ListNeedRefresh implements timesheet.MonthlyRepository. Older months come first so a rollover
// always reads a refreshed predecessor.
func (r *monthlyTimesheetRepositoryImpl) ListNeedRefresh(ctx context.Context, limit int) ([]timesheet.MonthlyTimesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + monthlyColumns + `
		FROM monthly_timesheets
		WHERE need_refresh = TRUE
		ORDER BY month_key, employee_id
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly timesheets: %w", err)
	}
	defer rows.Close()

	result := make([]timesheet.MonthlyTimesheet, 0)
	for rows.Next() {
		m, err := scanMonthly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly timesheet: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Delete implements timesheet.MonthlyRepository.
func (r *monthlyTimesheetRepositoryImpl) Delete(ctx context.Context, employeeID, monthKey string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM monthly_timesheets WHERE employee_id = $1 AND month_key = $2`
	if _, err := q.Exec(ctx, query, employeeID, monthKey); err != nil {
		return fmt.Errorf("failed to delete monthly timesheet: %w", err)
	}
	return nil
}
