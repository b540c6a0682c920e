package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Shift times are TIME columns, read back as HH24:MI text and parsed into wall clocks.
const workScheduleColumns = `
	id, weekday,
	to_char(morning_start, 'HH24:MI'), to_char(morning_end, 'HH24:MI'),
	to_char(noon_start, 'HH24:MI'), to_char(noon_end, 'HH24:MI'),
	to_char(afternoon_start, 'HH24:MI'), to_char(afternoon_end, 'HH24:MI'),
	is_morning_required, is_afternoon_required, allowed_late_minutes,
	is_active, created_at, updated_at`

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

func scanWorkSchedule(row pgx.Row) (schedule.WorkSchedule, error) {
	var (
		ws      schedule.WorkSchedule
		weekday int
		clocks  [6]*string
	)
	err := row.Scan(
		&ws.ID, &weekday,
		&clocks[0], &clocks[1], &clocks[2], &clocks[3], &clocks[4], &clocks[5],
		&ws.IsMorningRequired, &ws.IsAfternoonRequired, &ws.AllowedLateMinutes,
		&ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		return schedule.WorkSchedule{}, err
	}

	ws.Weekday = time.Weekday(weekday)
	targets := []**time.Time{
		&ws.MorningStart, &ws.MorningEnd,
		&ws.NoonStart, &ws.NoonEnd,
		&ws.AfternoonStart, &ws.AfternoonEnd,
	}
	for i, c := range clocks {
		if c == nil {
			continue
		}
		t, ok := validator.IsValidClock(*c)
		if !ok {
			return schedule.WorkSchedule{}, fmt.Errorf("invalid shift time %q on work schedule %s", *c, ws.ID)
		}
		*targets[i] = &t
	}
	return ws, nil
}

func clockArg(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

// GetByWeekday implements schedule.WorkScheduleRepository.
func (r *workScheduleRepositoryImpl) GetByWeekday(ctx context.Context, weekday time.Weekday) (*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workScheduleColumns + `
		FROM work_schedules
		WHERE weekday = $1 AND is_active = TRUE
	`
	ws, err := scanWorkSchedule(q.QueryRow(ctx, query, int(weekday)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return &ws, nil
}

// ListActive implements schedule.WorkScheduleRepository.
func (r *workScheduleRepositoryImpl) ListActive(ctx context.Context) ([]schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	// Monday first, Sunday last.
	query := `SELECT ` + workScheduleColumns + `
		FROM work_schedules
		WHERE is_active = TRUE
		ORDER BY (weekday + 6) % 7
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]schedule.WorkSchedule, 0, 7)
	for rows.Next() {
		ws, err := scanWorkSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		schedules = append(schedules, ws)
	}
	return schedules, rows.Err()
}

// Upsert implements schedule.WorkScheduleRepository. The previous active schedule of the
// weekday is deactivated rather than overwritten.
func (r *workScheduleRepositoryImpl) Upsert(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}

	if _, err := q.Exec(ctx, `
		UPDATE work_schedules SET is_active = FALSE, updated_at = NOW()
		WHERE weekday = $1 AND is_active = TRUE AND id <> $2
	`, int(ws.Weekday), ws.ID); err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("failed to deactivate work schedule: %w", err)
	}

	query := `
		INSERT INTO work_schedules (
			id, weekday,
			morning_start, morning_end, noon_start, noon_end, afternoon_start, afternoon_end,
			is_morning_required, is_afternoon_required, allowed_late_minutes,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2,
			$3::time, $4::time, $5::time, $6::time, $7::time, $8::time,
			$9, $10, $11,
			TRUE, NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			morning_start = EXCLUDED.morning_start,
			morning_end = EXCLUDED.morning_end,
			noon_start = EXCLUDED.noon_start,
			noon_end = EXCLUDED.noon_end,
			afternoon_start = EXCLUDED.afternoon_start,
			afternoon_end = EXCLUDED.afternoon_end,
			is_morning_required = EXCLUDED.is_morning_required,
			is_afternoon_required = EXCLUDED.is_afternoon_required,
			allowed_late_minutes = EXCLUDED.allowed_late_minutes,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING ` + workScheduleColumns

	saved, err := scanWorkSchedule(q.QueryRow(ctx, query,
		ws.ID, int(ws.Weekday),
		clockArg(ws.MorningStart), clockArg(ws.MorningEnd),
		clockArg(ws.NoonStart), clockArg(ws.NoonEnd),
		clockArg(ws.AfternoonStart), clockArg(ws.AfternoonEnd),
		ws.IsMorningRequired, ws.IsAfternoonRequired, ws.AllowedLateMinutes,
	))
	if err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("failed to upsert work schedule: %w", err)
	}
	return saved, nil
}
