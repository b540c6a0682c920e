package schedule

import (
	"context"
	"time"
)

type WorkScheduleRepository interface {
	// GetByWeekday returns the active schedule for a weekday, or nil when none is configured.
	GetByWeekday(ctx context.Context, weekday time.Weekday) (*WorkSchedule, error)

	// ListActive returns every active schedule ordered Monday first.
	ListActive(ctx context.Context) ([]WorkSchedule, error)

	// Upsert replaces the active schedule of the weekday.
	Upsert(ctx context.Context, workSchedule WorkSchedule) (WorkSchedule, error)
}
