package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Options holds the scalar settings of the service.
type Options struct {
	Location            *time.Location
	Workers             int
	StandardHoursPerDay int
	// Now overrides the clock, mainly in tests.
	Now func() time.Time
}

type TimesheetServiceImpl struct {
	tx         timesheet.Transactor
	entries    timesheet.EntryRepository
	monthly    timesheet.MonthlyRepository
	proposals  proposal.Repository
	contracts  contract.ContractRepository
	employees  employee.EmployeeRepository
	snapshots  *SnapshotService
	calculator *Calculator
	recalc     *RecalculationHandler
	loc        *time.Location
	now        func() time.Time
}

func NewTimesheetService(
	tx timesheet.Transactor,
	entries timesheet.EntryRepository,
	monthly timesheet.MonthlyRepository,
	proposals proposal.Repository,
	contracts contract.ContractRepository,
	employees employee.EmployeeRepository,
	snapshots *SnapshotService,
	opts Options,
) *TimesheetServiceImpl {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &TimesheetServiceImpl{
		tx:         tx,
		entries:    entries,
		monthly:    monthly,
		proposals:  proposals,
		contracts:  contracts,
		employees:  employees,
		snapshots:  snapshots,
		calculator: NewCalculator(opts.StandardHoursPerDay),
		loc:        opts.Location,
		now:        opts.Now,
	}
	s.recalc = NewRecalculationHandler(s, employees, opts.Workers)
	return s
}

// Recalculation returns the handler that consumes recalculation events.
func (s *TimesheetServiceImpl) Recalculation() *RecalculationHandler {
	return s.recalc
}

func (s *TimesheetServiceImpl) Location() *time.Location {
	return s.loc
}

// Today is midnight of the current date in the configured location.
func (s *TimesheetServiceImpl) Today() time.Time {
	return interval.StartOfDay(s.now().In(s.loc))
}

func (s *TimesheetServiceImpl) day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// RecomputeEntry snapshots and calculates the entry of the employee on date, creating it when
// missing. closeDay finalizes the entry even when date is today.
func (s *TimesheetServiceImpl) RecomputeEntry(ctx context.Context, employeeID string, date time.Time, closeDay bool) (timesheet.Entry, error) {
	date = s.day(date)
	var entry timesheet.Entry

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.getOrCreate(ctx, employeeID, date)
		if err != nil {
			return err
		}

		snap, err := s.snapshots.Snapshot(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to snapshot timesheet entry: %w", err)
		}
		proposals, err := s.proposals.ListApprovedForEmployee(ctx, employeeID, date, date)
		if err != nil {
			return fmt.Errorf("failed to list approved proposals: %w", err)
		}

		if closeDay {
			entry.IsClosed = true
		}
		today := s.Today()
		finalizing := entry.IsClosed || date.Before(today)

		entry.ApplySnapshot(snap)
		entry.ApplyComputation(s.calculator.Calculate(InputFromEntry(entry, snap, finalizing, today), proposals))

		if err := s.entries.Save(ctx, entry); err != nil {
			return fmt.Errorf("failed to save timesheet entry: %w", err)
		}
		if err := s.monthly.MarkNeedRefresh(ctx, employeeID, timesheet.MonthKey(date.Year(), date.Month())); err != nil {
			return fmt.Errorf("failed to flag monthly timesheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return timesheet.Entry{}, err
	}
	return entry, nil
}

// getOrCreate returns the entry row-locked for the rest of the transaction. A missing entry is
// inserted first; a concurrent insert of the same day resolves to one row.
func (s *TimesheetServiceImpl) getOrCreate(ctx context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	entry, err := s.entries.GetForUpdate(ctx, employeeID, date)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, timesheet.ErrEntryNotFound) {
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	if _, err := s.entries.Create(ctx, timesheet.NewEntry(employeeID, date)); err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to create timesheet entry: %w", err)
	}
	entry, err = s.entries.GetForUpdate(ctx, employeeID, date)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	return entry, nil
}

// IngestPunch implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) IngestPunch(ctx context.Context, req timesheet.IngestPunchRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return timesheet.EntryResponse{}, err
	}

	at := req.Time().In(s.loc)
	date := s.day(at)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.getOrCreate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}
		if entry.IsManuallyCorrected {
			slog.Info("Punch ignored on manually corrected entry",
				"employee_id", req.EmployeeID,
				"date", date.Format("2006-01-02"),
			)
			return nil
		}
		if !applyPunch(&entry, at) {
			return nil
		}
		if err := s.entries.Save(ctx, entry); err != nil {
			return fmt.Errorf("failed to save punch: %w", err)
		}
		return nil
	})
	if err != nil {
		return timesheet.EntryResponse{}, err
	}

	entry, err := s.RecomputeEntry(ctx, req.EmployeeID, date, false)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}
	return timesheet.ToEntryResponse(entry), nil
}

// applyPunch keeps the earliest punch as start and the latest as end.
// It reports whether the entry changed.
func applyPunch(entry *timesheet.Entry, at time.Time) bool {
	switch {
	case entry.StartTime == nil:
		entry.StartTime = &at
	case at.Equal(*entry.StartTime):
		return false
	case at.Before(*entry.StartTime):
		if entry.EndTime == nil {
			entry.EndTime = entry.StartTime
		}
		entry.StartTime = &at
	case entry.EndTime == nil || at.After(*entry.EndTime):
		entry.EndTime = &at
	default:
		return false
	}
	return true
}

// Recalculate implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Recalculate(ctx context.Context, req timesheet.RecalculateRequest) (timesheet.RecalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.RecalculationResponse{}, err
	}
	event := req.ToEvent(s.loc)
	if event.EmployeeID != "" {
		if _, err := s.employees.GetByID(ctx, event.EmployeeID); err != nil {
			return timesheet.RecalculationResponse{}, err
		}
	}

	result, err := s.recalc.Handle(ctx, event)
	if err != nil {
		return timesheet.RecalculationResponse{}, err
	}
	return timesheet.RecalculationResponse{
		Source:    string(event.Source),
		Processed: result.Processed,
		Failed:    result.Failed,
	}, nil
}

// ListEntries implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListEntries(ctx context.Context, req timesheet.ListEntriesRequest) ([]timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, to := req.Range(s.loc)

	entries, err := s.entries.ListRange(ctx, req.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}

	resp := make([]timesheet.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, timesheet.ToEntryResponse(e))
	}
	return resp, nil
}

// GetMonthly implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetMonthly(ctx context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheetResponse, error) {
	if _, _, ok := validator.IsValidMonthKey(monthKey); !ok {
		return timesheet.MonthlyTimesheetResponse{}, timesheet.ErrInvalidMonthKey
	}
	m, err := s.monthly.Get(ctx, employeeID, monthKey)
	if err != nil {
		return timesheet.MonthlyTimesheetResponse{}, err
	}
	return timesheet.ToMonthlyResponse(m), nil
}

// RefreshMonthly implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) RefreshMonthly(ctx context.Context, employeeID, monthKey string) (timesheet.MonthlyTimesheetResponse, error) {
	year, month, ok := validator.IsValidMonthKey(monthKey)
	if !ok {
		return timesheet.MonthlyTimesheetResponse{}, timesheet.ErrInvalidMonthKey
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return timesheet.MonthlyTimesheetResponse{}, err
	}
	m, err := s.RefreshMonth(ctx, employeeID, year, month)
	if err != nil {
		return timesheet.MonthlyTimesheetResponse{}, err
	}
	return timesheet.ToMonthlyResponse(m), nil
}

// RefreshMonth aggregates the month's entries and rolls the leave balance over from the
// previous month, then stores the row with its refresh flag cleared. The row stays locked while
// the entries are read, and the months whose rollover depends on a changed balance are flagged.
func (s *TimesheetServiceImpl) RefreshMonth(ctx context.Context, employeeID string, year int, month time.Month) (timesheet.MonthlyTimesheet, error) {
	key := timesheet.MonthKey(year, month)
	from, to := interval.MonthBounds(year, month, s.loc)
	var saved timesheet.MonthlyTimesheet

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.monthly.LockForRefresh(ctx, employeeID, key)
		if err != nil {
			return err
		}

		entries, err := s.entries.ListRange(ctx, employeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list timesheet entries: %w", err)
		}
		m := Aggregate(employeeID, key, entries)

		in := RolloverInput{Month: month, Consumed: m.ConsumedLeaveDays}

		prevYear, prevMonth := timesheet.PreviousMonth(year, month)
		if in.Previous, err = s.findMonthly(ctx, employeeID, timesheet.MonthKey(prevYear, prevMonth)); err != nil {
			return err
		}
		if month == time.April {
			in.ConsumedFirstQuarter = decimal.Zero
			for _, q := range []time.Month{time.January, time.February, time.March} {
				row, err := s.findMonthly(ctx, employeeID, timesheet.MonthKey(year, q))
				if err != nil {
					return err
				}
				if row == nil {
					continue
				}
				if q == time.January {
					in.January = row
				}
				in.ConsumedFirstQuarter = in.ConsumedFirstQuarter.Add(row.ConsumedLeaveDays)
			}
		}

		contracts, err := s.contracts.ListByEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list contracts: %w", err)
		}
		in.Generated = GeneratedLeave(contracts, year, month)

		Rollover(in).Apply(&m)

		saved, err = s.monthly.Upsert(ctx, m)
		if err != nil {
			return fmt.Errorf("failed to upsert monthly timesheet: %w", err)
		}
		return s.flagDependents(ctx, year, month, before, saved)
	})
	if err != nil {
		return timesheet.MonthlyTimesheet{}, err
	}
	return saved, nil
}

// flagDependents flags the stored months whose rollover reads a changed figure of this one: the
// next month opens with its remaining balance, and April expires what January carried over and
// the first quarter did not consume.
func (s *TimesheetServiceImpl) flagDependents(ctx context.Context, year int, month time.Month, before, after timesheet.MonthlyTimesheet) error {
	var keys []string
	if !after.RemainingLeaveDays.Equal(before.RemainingLeaveDays) {
		nextYear, nextMonth := timesheet.NextMonth(year, month)
		keys = append(keys, timesheet.MonthKey(nextYear, nextMonth))
	}
	if month <= time.March && (!after.ConsumedLeaveDays.Equal(before.ConsumedLeaveDays) ||
		!after.CarriedOverLeave.Equal(before.CarriedOverLeave)) {
		april := timesheet.MonthKey(year, time.April)
		if len(keys) == 0 || keys[0] != april {
			keys = append(keys, april)
		}
	}

	for _, key := range keys {
		row, err := s.findMonthly(ctx, after.EmployeeID, key)
		if err != nil {
			return err
		}
		if row == nil {
			continue
		}
		if err := s.monthly.MarkNeedRefresh(ctx, after.EmployeeID, key); err != nil {
			return fmt.Errorf("failed to flag monthly timesheet %s: %w", key, err)
		}
		slog.Debug("Dependent monthly timesheet flagged for refresh",
			"employee_id", after.EmployeeID,
			"month_key", key,
			"changed_month_key", after.MonthKey,
		)
	}
	return nil
}

func (s *TimesheetServiceImpl) findMonthly(ctx context.Context, employeeID, key string) (*timesheet.MonthlyTimesheet, error) {
	m, err := s.monthly.Get(ctx, employeeID, key)
	if err != nil {
		if errors.Is(err, timesheet.ErrMonthlyTimesheetNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly timesheet %s: %w", key, err)
	}
	return &m, nil
}

// RefreshPending refreshes up to limit monthly rows flagged for refresh. Failures are logged and
// skipped; the count of refreshed rows is returned.
func (s *TimesheetServiceImpl) RefreshPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.monthly.ListNeedRefresh(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list monthly timesheets to refresh: %w", err)
	}

	refreshed := 0
	for _, m := range pending {
		year, month, ok := validator.IsValidMonthKey(m.MonthKey)
		if !ok {
			slog.Error("Invalid month key on monthly timesheet", "employee_id", m.EmployeeID, "month_key", m.MonthKey)
			continue
		}
		if _, err := s.RefreshMonth(ctx, m.EmployeeID, year, month); err != nil {
			slog.Error("Failed to refresh monthly timesheet",
				"employee_id", m.EmployeeID,
				"month_key", m.MonthKey,
				"error", err,
			)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// ProvisionMonth creates and computes one entry per day of the month. Existing entries are
// recomputed, so running it twice is harmless. An empty employeeID provisions every active employee.
func (s *TimesheetServiceImpl) ProvisionMonth(ctx context.Context, employeeID string, year int, month time.Month) (timesheet.RecalculationResult, error) {
	from, to := interval.MonthBounds(year, month, s.loc)
	return s.recalc.Handle(ctx, timesheet.RecalculationEvent{
		Source:     timesheet.SourceManual,
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	})
}

// FinalizeDay closes date for every active employee, locking in status and working days.
func (s *TimesheetServiceImpl) FinalizeDay(ctx context.Context, date time.Time) (timesheet.RecalculationResult, error) {
	day := s.day(date)
	return s.recalc.Handle(ctx, timesheet.RecalculationEvent{
		Source: timesheet.SourceDayClosed,
		From:   day,
		To:     day,
	})
}

// DeleteEmployeeMonth removes the employee's entries and summary row for the month.
func (s *TimesheetServiceImpl) DeleteEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) error {
	from, to := interval.MonthBounds(year, month, s.loc)
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.entries.DeleteRange(ctx, employeeID, from, to); err != nil {
			return fmt.Errorf("failed to delete timesheet entries: %w", err)
		}
		if err := s.monthly.Delete(ctx, employeeID, timesheet.MonthKey(year, month)); err != nil {
			return fmt.Errorf("failed to delete monthly timesheet: %w", err)
		}
		return nil
	})
}
