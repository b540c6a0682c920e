package calendar

import (
	"context"
	"time"
)

// Repository reads calendar exceptions. Writes happen outside the timesheet engine and are
// announced to it through calendar_changed recalculation events.
type Repository interface {
	// ListHolidaysCovering returns every holiday whose inclusive range contains date.
	ListHolidaysCovering(ctx context.Context, date time.Time) ([]Holiday, error)

	// GetCompensatoryWorkday returns the compensatory workday on date, or nil.
	GetCompensatoryWorkday(ctx context.Context, date time.Time) (*CompensatoryWorkday, error)
}
