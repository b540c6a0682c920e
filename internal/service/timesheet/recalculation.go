package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"golang.org/x/sync/errgroup"
)

// EntryRecomputer recomputes a single entry.
type EntryRecomputer interface {
	RecomputeEntry(ctx context.Context, employeeID string, date time.Time, closeDay bool) (timesheet.Entry, error)
}

// RecalculationHandler consumes recalculation events. Every (employee, date) pair is recomputed
// independently: one failure is logged and counted, and never rolls back the others.
type RecalculationHandler struct {
	recomputer EntryRecomputer
	employees  employee.EmployeeRepository
	workers    int
}

func NewRecalculationHandler(recomputer EntryRecomputer, employees employee.EmployeeRepository, workers int) *RecalculationHandler {
	if workers < 1 {
		workers = 1
	}
	return &RecalculationHandler{
		recomputer: recomputer,
		employees:  employees,
		workers:    workers,
	}
}

func (h *RecalculationHandler) Handle(ctx context.Context, event timesheet.RecalculationEvent) (timesheet.RecalculationResult, error) {
	if err := event.Validate(); err != nil {
		return timesheet.RecalculationResult{}, err
	}

	employeeIDs := []string{event.EmployeeID}
	if event.EmployeeID == "" {
		ids, err := h.employees.ListActiveIDs(ctx)
		if err != nil {
			return timesheet.RecalculationResult{}, fmt.Errorf("failed to list active employees: %w", err)
		}
		employeeIDs = ids
	}
	days := interval.DaysBetween(event.From, event.To)

	var (
		mu     sync.Mutex
		result timesheet.RecalculationResult
		g      errgroup.Group
	)
	g.SetLimit(h.workers)

	for _, id := range employeeIDs {
		id := id
		g.Go(func() error {
			r := h.recomputeEmployee(ctx, event, id, days)
			mu.Lock()
			result.Add(r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Timesheet recalculation finished",
		"source", event.Source,
		"employees", len(employeeIDs),
		"from", event.From.Format("2006-01-02"),
		"to", event.To.Format("2006-01-02"),
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}

func (h *RecalculationHandler) recomputeEmployee(ctx context.Context, event timesheet.RecalculationEvent, employeeID string, days []time.Time) timesheet.RecalculationResult {
	var result timesheet.RecalculationResult
	for _, day := range days {
		if _, err := h.recomputer.RecomputeEntry(ctx, employeeID, day, event.Closes()); err != nil {
			slog.Error("Failed to recompute timesheet entry",
				"employee_id", employeeID,
				"date", day.Format("2006-01-02"),
				"source", event.Source,
				"error", err,
			)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result
}
