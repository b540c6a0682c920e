package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
)

// TimesheetRunner is the part of the timesheet service the background jobs drive.
type TimesheetRunner interface {
	Today() time.Time
	FinalizeDay(ctx context.Context, date time.Time) (timesheet.RecalculationResult, error)
	RefreshPending(ctx context.Context, limit int) (int, error)
	ProvisionMonth(ctx context.Context, employeeID string, year int, month time.Month) (timesheet.RecalculationResult, error)
}

// TimesheetSchedule holds the cron specs of the timesheet jobs.
type TimesheetSchedule struct {
	FinalizeSpec     string
	RefreshSpec      string
	ProvisionSpec    string
	RefreshBatchSize int
}

type TimesheetJobs struct {
	runner   TimesheetRunner
	schedule TimesheetSchedule
}

func NewTimesheetJobs(runner TimesheetRunner, schedule TimesheetSchedule) *TimesheetJobs {
	return &TimesheetJobs{runner: runner, schedule: schedule}
}

func (j *TimesheetJobs) RegisterJobs(scheduler *Scheduler) error {
	if err := scheduler.AddJob("finalize_previous_day", j.schedule.FinalizeSpec, j.FinalizePreviousDay); err != nil {
		return err
	}
	if err := scheduler.AddJob("refresh_monthly_timesheets", j.schedule.RefreshSpec, j.RefreshMonthlyTimesheets); err != nil {
		return err
	}
	return scheduler.AddJob("provision_month", j.schedule.ProvisionSpec, j.ProvisionMonth)
}

// FinalizePreviousDay closes yesterday for every active employee.
func (j *TimesheetJobs) FinalizePreviousDay(ctx context.Context) error {
	yesterday := j.runner.Today().AddDate(0, 0, -1)

	slog.Info("Cron: Starting finalize previous day job", "date", yesterday.Format("2006-01-02"))

	result, err := j.runner.FinalizeDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to finalize %s: %w", yesterday.Format("2006-01-02"), err)
	}

	slog.Info("Cron: Finalize previous day job completed",
		"date", yesterday.Format("2006-01-02"),
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return nil
}

func (j *TimesheetJobs) RefreshMonthlyTimesheets(ctx context.Context) error {
	refreshed, err := j.runner.RefreshPending(ctx, j.schedule.RefreshBatchSize)
	if err != nil {
		return err
	}
	if refreshed > 0 {
		slog.Info("Cron: Monthly timesheets refreshed", "count", refreshed)
	}
	return nil
}

// ProvisionMonth creates the entries of the current month for every active employee.
func (j *TimesheetJobs) ProvisionMonth(ctx context.Context) error {
	today := j.runner.Today()

	slog.Info("Cron: Starting provision month job", "month", timesheet.MonthKey(today.Year(), today.Month()))

	result, err := j.runner.ProvisionMonth(ctx, "", today.Year(), today.Month())
	if err != nil {
		return fmt.Errorf("failed to provision month: %w", err)
	}

	slog.Info("Cron: Provision month job completed",
		"month", timesheet.MonthKey(today.Year(), today.Month()),
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return nil
}
