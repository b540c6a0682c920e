package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.Repository {
	return &calendarRepositoryImpl{db: db}
}

// ListHolidaysCovering implements calendar.Repository.
func (r *calendarRepositoryImpl) ListHolidaysCovering(ctx context.Context, date time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM holidays
		WHERE $1::date BETWEEN start_date AND end_date
		ORDER BY start_date
	`
	rows, err := q.Query(ctx, query, dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]calendar.Holiday, 0)
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.StartDate, &h.EndDate, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// GetCompensatoryWorkday implements calendar.Repository.
func (r *calendarRepositoryImpl) GetCompensatoryWorkday(ctx context.Context, date time.Time) (*calendar.CompensatoryWorkday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, holiday_id, date, session, created_at, updated_at
		FROM compensatory_workdays
		WHERE date = $1::date
	`
	var (
		c       calendar.CompensatoryWorkday
		session string
	)
	err := q.QueryRow(ctx, query, dateArg(date)).Scan(
		&c.ID, &c.HolidayID, &c.Date, &session, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get compensatory workday: %w", err)
	}
	c.Session = schedule.Session(session)
	return &c, nil
}
