package schedule

import "context"

type ScheduleService interface {
	ListWorkSchedules(ctx context.Context) ([]WorkScheduleResponse, error)

	// UpsertWorkSchedule replaces the weekday template and recalculates the open days it affects.
	UpsertWorkSchedule(ctx context.Context, req UpsertWorkScheduleRequest) (WorkScheduleResponse, error)
}
