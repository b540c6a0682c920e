package timesheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/interval"
	"github.com/google/uuid"
)

// =============================================================================
// IN-MEMORY REPOSITORIES
// =============================================================================

var jakarta = time.FixedZone("WIB", 7*60*60)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, jakarta)
}

func at(date time.Time, hour, minute int) *time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	return &t
}

func clock(hour, minute int) *time.Time {
	t := interval.Clock(hour, minute)
	return &t
}

// regularSchedule works 08:00-12:00 and 13:00-17:00 with 15 minutes of grace.
func regularSchedule(weekday time.Weekday) schedule.WorkSchedule {
	return schedule.WorkSchedule{
		ID:                  fmt.Sprintf("ws-%d", weekday),
		Weekday:             weekday,
		MorningStart:        clock(8, 0),
		MorningEnd:          clock(12, 0),
		NoonStart:           clock(12, 0),
		NoonEnd:             clock(13, 0),
		AfternoonStart:      clock(13, 0),
		AfternoonEnd:        clock(17, 0),
		IsMorningRequired:   true,
		IsAfternoonRequired: true,
		AllowedLateMinutes:  15,
		IsActive:            true,
	}
}

// morningOnlySchedule works 08:00-12:00, like a Saturday.
func morningOnlySchedule(weekday time.Weekday) schedule.WorkSchedule {
	ws := regularSchedule(weekday)
	ws.IsAfternoonRequired = false
	ws.AfternoonStart = nil
	ws.AfternoonEnd = nil
	return ws
}

// restSchedule is configured but requires no shift, like a Sunday.
func restSchedule(weekday time.Weekday) schedule.WorkSchedule {
	return schedule.WorkSchedule{ID: fmt.Sprintf("ws-%d", weekday), Weekday: weekday, IsActive: true}
}

type memorySchedules struct {
	byWeekday map[time.Weekday]schedule.WorkSchedule
}

func newMemorySchedules(schedules ...schedule.WorkSchedule) *memorySchedules {
	m := &memorySchedules{byWeekday: make(map[time.Weekday]schedule.WorkSchedule)}
	for _, s := range schedules {
		m.byWeekday[s.Weekday] = s
	}
	return m
}

// standardWeek is Monday-Friday regular, Saturday morning only, Sunday rest.
func standardWeek() *memorySchedules {
	return newMemorySchedules(
		regularSchedule(time.Monday),
		regularSchedule(time.Tuesday),
		regularSchedule(time.Wednesday),
		regularSchedule(time.Thursday),
		regularSchedule(time.Friday),
		morningOnlySchedule(time.Saturday),
		restSchedule(time.Sunday),
	)
}

func (m *memorySchedules) GetByWeekday(_ context.Context, weekday time.Weekday) (*schedule.WorkSchedule, error) {
	ws, ok := m.byWeekday[weekday]
	if !ok {
		return nil, nil
	}
	return &ws, nil
}

func (m *memorySchedules) ListActive(_ context.Context) ([]schedule.WorkSchedule, error) {
	var out []schedule.WorkSchedule
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if ws, ok := m.byWeekday[wd]; ok {
			out = append(out, ws)
		}
	}
	return out, nil
}

func (m *memorySchedules) Upsert(_ context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	m.byWeekday[ws.Weekday] = ws
	return ws, nil
}

type memoryCalendar struct {
	holidays     []calendar.Holiday
	compensatory []calendar.CompensatoryWorkday
	err          error
}

func (m *memoryCalendar) ListHolidaysCovering(_ context.Context, date time.Time) ([]calendar.Holiday, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []calendar.Holiday
	for _, h := range m.holidays {
		if h.Contains(date) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memoryCalendar) GetCompensatoryWorkday(_ context.Context, date time.Time) (*calendar.CompensatoryWorkday, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.compensatory {
		if interval.SameDay(m.compensatory[i].Date, date) {
			c := m.compensatory[i]
			return &c, nil
		}
	}
	return nil, nil
}

type memoryContracts struct {
	contracts  []contract.Contract
	exemptions []contract.AttendanceExemption
}

func (m *memoryContracts) ListByEmployee(_ context.Context, employeeID string) ([]contract.Contract, error) {
	var out []contract.Contract
	for _, c := range m.contracts {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memoryExemptions struct {
	*memoryContracts
}

func (m memoryExemptions) ListByEmployee(_ context.Context, employeeID string) ([]contract.AttendanceExemption, error) {
	var out []contract.AttendanceExemption
	for _, e := range m.exemptions {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memoryProposals struct {
	mu        sync.Mutex
	proposals []proposal.Proposal
}

func (m *memoryProposals) add(p ...proposal.Proposal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals = append(m.proposals, p...)
}

func (m *memoryProposals) GetByID(_ context.Context, id string) (proposal.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.proposals {
		if p.Meta().ID == id {
			return p, nil
		}
	}
	return nil, proposal.ErrProposalNotFound
}

func (m *memoryProposals) ListApprovedForEmployee(_ context.Context, employeeID string, from, to time.Time) ([]proposal.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []proposal.Proposal
	for _, p := range m.proposals {
		if p.Meta().EmployeeID != employeeID || !p.Meta().IsApproved() {
			continue
		}
		for _, d := range interval.DaysBetween(from, to) {
			if p.Covers(d) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

type entryKey struct {
	employeeID string
	date       string
}

type memoryEntries struct {
	mu      sync.Mutex
	entries map[entryKey]timesheet.Entry
	saves   int
	failOn  map[string]error
	// reads counts plain reads, lockedReads the row-locking ones.
	reads       int
	lockedReads int
	// onList runs before every ListRange.
	onList func()
}

func newMemoryEntries() *memoryEntries {
	return &memoryEntries{
		entries: make(map[entryKey]timesheet.Entry),
		failOn:  make(map[string]error),
	}
}

func keyOf(employeeID string, date time.Time) entryKey {
	return entryKey{employeeID: employeeID, date: date.Format("2006-01-02")}
}

func (m *memoryEntries) Get(_ context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.get(employeeID, date)
}

func (m *memoryEntries) GetForUpdate(_ context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockedReads++
	return m.get(employeeID, date)
}

func (m *memoryEntries) get(employeeID string, date time.Time) (timesheet.Entry, error) {
	e, ok := m.entries[keyOf(employeeID, date)]
	if !ok {
		return timesheet.Entry{}, timesheet.ErrEntryNotFound
	}
	return e, nil
}

func (m *memoryEntries) GetByID(_ context.Context, id string) (timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.getByID(id)
}

func (m *memoryEntries) GetByIDForUpdate(_ context.Context, id string) (timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockedReads++
	return m.getByID(id)
}

func (m *memoryEntries) getByID(id string) (timesheet.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return timesheet.Entry{}, timesheet.ErrEntryNotFound
}

func (m *memoryEntries) Create(_ context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := keyOf(entry.EmployeeID, entry.Date)
	if existing, ok := m.entries[k]; ok {
		return existing, nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	m.entries[k] = entry
	return entry, nil
}

func (m *memoryEntries) Save(_ context.Context, entry timesheet.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[entry.Date.Format("2006-01-02")]; ok {
		return err
	}
	k := keyOf(entry.EmployeeID, entry.Date)
	if _, ok := m.entries[k]; !ok {
		return timesheet.ErrEntryNotFound
	}
	m.entries[k] = entry
	m.saves++
	return nil
}

func (m *memoryEntries) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]timesheet.Entry, error) {
	if m.onList != nil {
		m.onList()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []timesheet.Entry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryEntries) DeleteRange(_ context.Context, employeeID string, from, to time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.EmployeeID == employeeID && !e.Date.Before(from) && !e.Date.After(to) {
			delete(m.entries, k)
		}
	}
	return nil
}

type monthKey struct {
	employeeID string
	month      string
}

type memoryMonthly struct {
	mu     sync.Mutex
	rows   map[monthKey]timesheet.MonthlyTimesheet
	locked []string
}

func newMemoryMonthly() *memoryMonthly {
	return &memoryMonthly{rows: make(map[monthKey]timesheet.MonthlyTimesheet)}
}

func (m *memoryMonthly) Get(_ context.Context, employeeID, key string) (timesheet.MonthlyTimesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[monthKey{employeeID, key}]
	if !ok {
		return timesheet.MonthlyTimesheet{}, timesheet.ErrMonthlyTimesheetNotFound
	}
	return row, nil
}

func (m *memoryMonthly) Upsert(_ context.Context, row timesheet.MonthlyTimesheet) (timesheet.MonthlyTimesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := monthKey{row.EmployeeID, row.MonthKey}
	if existing, ok := m.rows[k]; ok {
		row.ID = existing.ID
	} else if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.NeedRefresh = false
	m.rows[k] = row
	return row, nil
}

func (m *memoryMonthly) LockForRefresh(_ context.Context, employeeID, key string) (timesheet.MonthlyTimesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := monthKey{employeeID, key}
	row, ok := m.rows[k]
	if !ok {
		row = timesheet.MonthlyTimesheet{ID: uuid.New().String(), EmployeeID: employeeID, MonthKey: key}
		m.rows[k] = row
	}
	m.locked = append(m.locked, key)
	return row, nil
}

func (m *memoryMonthly) isLocked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.locked {
		if k == key {
			return true
		}
	}
	return false
}

func (m *memoryMonthly) MarkNeedRefresh(_ context.Context, employeeID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := monthKey{employeeID, key}
	row, ok := m.rows[k]
	if !ok {
		row = timesheet.MonthlyTimesheet{ID: uuid.New().String(), EmployeeID: employeeID, MonthKey: key}
	}
	row.NeedRefresh = true
	m.rows[k] = row
	return nil
}

func (m *memoryMonthly) ListNeedRefresh(_ context.Context, limit int) ([]timesheet.MonthlyTimesheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []timesheet.MonthlyTimesheet
	for _, row := range m.rows {
		if row.NeedRefresh {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthKey < out[j].MonthKey })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryMonthly) Delete(_ context.Context, employeeID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, monthKey{employeeID, key})
	return nil
}

type memoryEmployees struct {
	ids []string
}

func (m *memoryEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range m.ids {
		if e == id {
			return employee.Employee{ID: id, EmploymentStatus: employee.EmploymentStatusActive}, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployees) ListActiveIDs(_ context.Context) ([]string, error) {
	return m.ids, nil
}

// passthroughTx runs fn without a transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var errBoom = errors.New("boom")

// =============================================================================
// PROPOSAL BUILDERS
// =============================================================================

func approved(employeeID string) proposal.Base {
	return proposal.Base{ID: uuid.New().String(), EmployeeID: employeeID, Status: proposal.StatusApproved}
}

func dateRange(from, to time.Time) proposal.DateRange {
	return proposal.DateRange{Start: from, End: to}
}

func paidLeave(employeeID string, from, to time.Time, session schedule.Session) proposal.PaidLeave {
	return proposal.PaidLeave{Base: approved(employeeID), Range: dateRange(from, to), Session: session}
}

func overtime(employeeID string, date time.Time, startHour, endHour int) proposal.OvertimeWork {
	return proposal.OvertimeWork{
		Base: approved(employeeID),
		Windows: []proposal.Window{
			{Date: date, Start: interval.Clock(startHour, 0), End: interval.Clock(endHour, 0)},
		},
	}
}
