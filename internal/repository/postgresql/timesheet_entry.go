package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const entryColumns = `
	id, employee_id, date,
	start_time, end_time, is_manually_corrected,
	morning_hours, afternoon_hours, official_hours,
	ot_tc1_hours, ot_tc2_hours, ot_tc3_hours, overtime_hours, total_worked_hours,
	day_type, contract_id, wage_rate, is_full_salary, is_exempt, allowed_late_minutes,
	approved_ot_start_time, approved_ot_end_time, approved_ot_minutes,
	status, absent_reason, late_minutes, early_minutes, is_punished,
	working_days, compensation_value, paid_leave_days, is_closed,
	created_at, updated_at`

type timesheetEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetEntryRepository(db *database.DB) timesheet.EntryRepository {
	return &timesheetEntryRepositoryImpl{db: db}
}

func scanEntry(row pgx.Row) (timesheet.Entry, error) {
	var (
		e            timesheet.Entry
		dayType      string
		status       *string
		absentReason *string
		workingDays  decimal.NullDecimal
	)
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.Date,
		&e.StartTime, &e.EndTime, &e.IsManuallyCorrected,
		&e.MorningHours, &e.AfternoonHours, &e.OfficialHours,
		&e.OTTC1Hours, &e.OTTC2Hours, &e.OTTC3Hours, &e.OvertimeHours, &e.TotalWorkedHours,
		&dayType, &e.ContractID, &e.WageRate, &e.IsFullSalary, &e.IsExempt, &e.AllowedLateMinutes,
		&e.ApprovedOTStartTime, &e.ApprovedOTEndTime, &e.ApprovedOTMinutes,
		&status, &absentReason, &e.LateMinutes, &e.EarlyMinutes, &e.IsPunished,
		&workingDays, &e.CompensationValue, &e.PaidLeaveDays, &e.IsClosed,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return timesheet.Entry{}, err
	}

	e.DayType = calendar.DayType(dayType)
	if status != nil {
		s := timesheet.Status(*status)
		e.Status = &s
	}
	if absentReason != nil {
		r := timesheet.AbsentReason(*absentReason)
		e.AbsentReason = &r
	}
	if workingDays.Valid {
		wd := workingDays.Decimal
		e.WorkingDays = &wd
	}
	return e, nil
}

// Get implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) Get(ctx context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	return r.getByDate(ctx, employeeID, date, "")
}

// GetForUpdate implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	return r.getByDate(ctx, employeeID, date, " FOR UPDATE")
}

// GetByID implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Entry, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForUpdate implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (timesheet.Entry, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *timesheetEntryRepositoryImpl) getByDate(ctx context.Context, employeeID string, date time.Time, lock string) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE employee_id = $1 AND date = $2::date` + lock
	e, err := scanEntry(q.QueryRow(ctx, query, employeeID, dateArg(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	return e, nil
}

func (r *timesheetEntryRepositoryImpl) getByID(ctx context.Context, id, lock string) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE id = $1` + lock
	e, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	return e, nil
}

// Create implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) Create(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO timesheet_entries (
			id, employee_id, date, day_type, wage_rate, is_full_salary, created_at, updated_at
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, NOW(), NOW()
		)
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	if _, err := q.Exec(ctx, query,
		entry.ID, entry.EmployeeID, dateArg(entry.Date),
		string(entry.DayType), entry.WageRate, entry.IsFullSalary,
	); err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to create timesheet entry: %w", err)
	}

	return r.Get(ctx, entry.EmployeeID, entry.Date)
}

// Save implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) Save(ctx context.Context, e timesheet.Entry) error {
	q := GetQuerier(ctx, r.db)

	var status, absentReason *string
	if e.Status != nil {
		s := string(*e.Status)
		status = &s
	}
	if e.AbsentReason != nil {
		s := string(*e.AbsentReason)
		absentReason = &s
	}
	workingDays := decimal.NullDecimal{}
	if e.WorkingDays != nil {
		workingDays = decimal.NewNullDecimal(*e.WorkingDays)
	}

	query := `
		UPDATE timesheet_entries SET
			start_time = $2, end_time = $3, is_manually_corrected = $4,
			morning_hours = $5, afternoon_hours = $6, official_hours = $7,
			ot_tc1_hours = $8, ot_tc2_hours = $9, ot_tc3_hours = $10,
			overtime_hours = $11, total_worked_hours = $12,
			day_type = $13, contract_id = $14, wage_rate = $15, is_full_salary = $16,
			is_exempt = $17, allowed_late_minutes = $18,
			approved_ot_start_time = $19, approved_ot_end_time = $20, approved_ot_minutes = $21,
			status = $22, absent_reason = $23, late_minutes = $24, early_minutes = $25,
			is_punished = $26, working_days = $27, compensation_value = $28,
			paid_leave_days = $29, is_closed = $30,
			updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query,
		e.ID,
		e.StartTime, e.EndTime, e.IsManuallyCorrected,
		e.MorningHours, e.AfternoonHours, e.OfficialHours,
		e.OTTC1Hours, e.OTTC2Hours, e.OTTC3Hours,
		e.OvertimeHours, e.TotalWorkedHours,
		string(e.DayType), e.ContractID, e.WageRate, e.IsFullSalary,
		e.IsExempt, e.AllowedLateMinutes,
		e.ApprovedOTStartTime, e.ApprovedOTEndTime, e.ApprovedOTMinutes,
		status, absentReason, e.LateMinutes, e.EarlyMinutes,
		e.IsPunished, workingDays, e.CompensationValue,
		e.PaidLeaveDays, e.IsClosed,
	)
	if err != nil {
		return fmt.Errorf("failed to save timesheet entry: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return timesheet.ErrEntryNotFound
	}
	return nil
}

// ListRange implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + `
		FROM timesheet_entries
		WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, employeeID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timesheet.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteRange implements timesheet.EntryRepository.
func (r *timesheetEntryRepositoryImpl) DeleteRange(ctx context.Context, employeeID string, from, to time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM timesheet_entries
		WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
	`
	if _, err := q.Exec(ctx, query, employeeID, dateArg(from), dateArg(to)); err != nil {
		return fmt.Errorf("failed to delete timesheet entries: %w", err)
	}
	return nil
}

// dateArg passes a calendar date as text so the server never shifts it across time zones.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}
