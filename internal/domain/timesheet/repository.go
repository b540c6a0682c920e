package timesheet

import (
	"context"
	"time"
)

type EntryRepository interface {
	// Get returns the entry of the employee on date, or ErrEntryNotFound.
	Get(ctx context.Context, employeeID string, date time.Time) (Entry, error)

	GetByID(ctx context.Context, id string) (Entry, error)

	// GetForUpdate is Get holding a row lock until the surrounding transaction ends, so a
	// read-modify-write of the entry cannot lose a concurrent one.
	GetForUpdate(ctx context.Context, employeeID string, date time.Time) (Entry, error)

	GetByIDForUpdate(ctx context.Context, id string) (Entry, error)

	// Create inserts the entry unless one already exists for (employee, date); either way the
	// stored entry is returned.
	Create(ctx context.Context, entry Entry) (Entry, error)

	// Save overwrites every mutable field of an existing entry.
	Save(ctx context.Context, entry Entry) error

	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error)

	DeleteRange(ctx context.Context, employeeID string, from, to time.Time) error
}

type MonthlyRepository interface {
	// Get returns the summary row, or ErrMonthlyTimesheetNotFound.
	Get(ctx context.Context, employeeID, monthKey string) (MonthlyTimesheet, error)

	// Upsert writes the row keyed by (employee, month key) and clears its refresh flag.
	Upsert(ctx context.Context, monthly MonthlyTimesheet) (MonthlyTimesheet, error)

	// LockForRefresh row-locks the summary row until the surrounding transaction ends, creating an
	// empty unflagged row if needed, and returns it. MarkNeedRefresh on the same row waits for the
	// lock, so a flag raised during a refresh survives it.
	LockForRefresh(ctx context.Context, employeeID, monthKey string) (MonthlyTimesheet, error)

	// MarkNeedRefresh flags the row for the refresh job, creating an empty row if needed.
	MarkNeedRefresh(ctx context.Context, employeeID, monthKey string) error

	ListNeedRefresh(ctx context.Context, limit int) ([]MonthlyTimesheet, error)

	Delete(ctx context.Context, employeeID, monthKey string) error
}

// Transactor runs fn in a single database transaction carried by the context.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
