package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
)

// Dispatcher accepts recalculation events.
type Dispatcher interface {
	Handle(ctx context.Context, event timesheet.RecalculationEvent) (timesheet.RecalculationResult, error)
}

type ScheduleServiceImpl struct {
	workScheduleRepo schedule.WorkScheduleRepository
	dispatcher       Dispatcher
	loc              *time.Location
	now              func() time.Time
}

func NewScheduleService(workScheduleRepo schedule.WorkScheduleRepository, dispatcher Dispatcher, loc *time.Location, now func() time.Time) *ScheduleServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleServiceImpl{
		workScheduleRepo: workScheduleRepo,
		dispatcher:       dispatcher,
		loc:              loc,
		now:              now,
	}
}

// ListWorkSchedules implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListWorkSchedules(ctx context.Context) ([]schedule.WorkScheduleResponse, error) {
	schedules, err := s.workScheduleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}
	responses := make([]schedule.WorkScheduleResponse, 0, len(schedules))
	for _, ws := range schedules {
		responses = append(responses, schedule.ToResponse(ws))
	}
	return responses, nil
}

// UpsertWorkSchedule implements schedule.ScheduleService.
// Days before today keep the numbers they were computed with; today through the end of the
// month is recalculated for every active employee.
func (s *ScheduleServiceImpl) UpsertWorkSchedule(ctx context.Context, req schedule.UpsertWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	saved, err := s.workScheduleRepo.Upsert(ctx, req.ToEntity())
	if err != nil {
		return schedule.WorkScheduleResponse{}, fmt.Errorf("failed to save work schedule: %w", err)
	}

	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, s.loc)

	result, err := s.dispatcher.Handle(ctx, timesheet.RecalculationEvent{
		Source: timesheet.SourceScheduleChanged,
		From:   from,
		To:     to,
	})
	if err != nil {
		return schedule.WorkScheduleResponse{}, fmt.Errorf("failed to recalculate after schedule change: %w", err)
	}
	slog.Info("Work schedule updated",
		"weekday", saved.Weekday.String(),
		"processed", result.Processed,
		"failed", result.Failed,
	)

	return schedule.ToResponse(saved), nil
}
