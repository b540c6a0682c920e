package timesheet

import "context"

// TimesheetService is the surface used by HTTP handlers.
type TimesheetService interface {
	// IngestPunch records one attendance punch and recomputes the day.
	IngestPunch(ctx context.Context, req IngestPunchRequest) (EntryResponse, error)

	// Recalculate dispatches a manual recalculation event.
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculationResponse, error)

	ListEntries(ctx context.Context, req ListEntriesRequest) ([]EntryResponse, error)

	GetMonthly(ctx context.Context, employeeID, monthKey string) (MonthlyTimesheetResponse, error)

	// RefreshMonthly recomputes the monthly summary right away instead of waiting for the refresh job.
	RefreshMonthly(ctx context.Context, employeeID, monthKey string) (MonthlyTimesheetResponse, error)
}
