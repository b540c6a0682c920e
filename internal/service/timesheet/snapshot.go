package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
)

// SnapshotService reads everything an entry depends on besides proposals and freezes it
// into a timesheet.Snapshot. It never writes.
type SnapshotService struct {
	days       *DayTypeResolver
	schedules  schedule.WorkScheduleRepository
	contracts  contract.ContractRepository
	exemptions contract.ExemptionRepository
}

func NewSnapshotService(
	days *DayTypeResolver,
	schedules schedule.WorkScheduleRepository,
	contracts contract.ContractRepository,
	exemptions contract.ExemptionRepository,
) *SnapshotService {
	return &SnapshotService{
		days:       days,
		schedules:  schedules,
		contracts:  contracts,
		exemptions: exemptions,
	}
}

func (s *SnapshotService) Snapshot(ctx context.Context, employeeID string, date time.Time) (timesheet.Snapshot, error) {
	snap := timesheet.Snapshot{
		EmployeeID:   employeeID,
		Date:         date,
		WageRate:     timesheet.DefaultWageRate,
		IsFullSalary: true,
	}

	dayType, compensatory, err := s.days.Resolve(ctx, date)
	if err != nil {
		return timesheet.Snapshot{}, err
	}
	snap.DayType = dayType
	snap.Compensatory = compensatory

	snap.Schedule, err = s.EffectiveSchedule(ctx, date, compensatory)
	if err != nil {
		return timesheet.Snapshot{}, err
	}

	contracts, err := s.contracts.ListByEmployee(ctx, employeeID)
	if err != nil {
		return timesheet.Snapshot{}, fmt.Errorf("failed to list contracts: %w", err)
	}
	if active := contract.ActiveOn(contracts, date); active != nil {
		id := active.ID
		snap.ContractID = &id
		snap.WageRate = active.WageRate
		snap.IsFullSalary = active.NetPercentage != contract.NetPercentageReduced
		snap.AnnualLeaveDays = active.AnnualLeaveDays
	}

	exemptions, err := s.exemptions.ListByEmployee(ctx, employeeID)
	if err != nil {
		return timesheet.Snapshot{}, fmt.Errorf("failed to list attendance exemptions: %w", err)
	}
	for _, e := range exemptions {
		if e.AppliesOn(date) {
			snap.IsExempt = true
			break
		}
	}

	return snap, nil
}

// EffectiveSchedule returns the schedule that governs date. On a compensatory workday the
// session picks the required shifts and missing shift times come from the first Monday to
// Friday schedule that defines them.
func (s *SnapshotService) EffectiveSchedule(ctx context.Context, date time.Time, compensatory *calendar.CompensatoryWorkday) (*schedule.WorkSchedule, error) {
	ws, err := s.schedules.GetByWeekday(ctx, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	if compensatory == nil {
		return ws, nil
	}

	base := schedule.WorkSchedule{Weekday: date.Weekday(), IsActive: true}
	if ws != nil {
		base = *ws
	}

	var fallback *schedule.WorkSchedule
	if !base.HasMorning() || !base.HasAfternoon() {
		active, err := s.schedules.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list work schedules: %w", err)
		}
		fallback = regularWeekday(active)
	}

	effective := base.ForSession(compensatory.Session, fallback)
	return &effective, nil
}

func regularWeekday(schedules []schedule.WorkSchedule) *schedule.WorkSchedule {
	var partial *schedule.WorkSchedule
	for i := range schedules {
		ws := schedules[i]
		if ws.Weekday == time.Saturday || ws.Weekday == time.Sunday {
			continue
		}
		if ws.HasMorning() && ws.HasAfternoon() {
			return &schedules[i]
		}
		if partial == nil && (ws.HasMorning() || ws.HasAfternoon()) {
			partial = &schedules[i]
		}
	}
	return partial
}
