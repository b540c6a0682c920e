package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const proposalColumns = `
	id, employee_id, type, status,
	start_date, end_date, session, late_minutes,
	entry_id, complaint_date, corrected_start, corrected_end,
	created_at, updated_at`

// proposalRow is one row of the proposals table. Which columns are meaningful depends on Type.
type proposalRow struct {
	ID             string
	EmployeeID     string
	Type           string
	Status         string
	StartDate      *time.Time
	EndDate        *time.Time
	Session        *string
	LateMinutes    *int
	EntryID        *string
	ComplaintDate  *time.Time
	CorrectedStart *time.Time
	CorrectedEnd   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type overtimeWindowRow struct {
	ProposalID string
	Date       time.Time
	Start      string
	End        string
}

type proposalRepositoryImpl struct {
	db *database.DB
}

func NewProposalRepository(db *database.DB) proposal.Repository {
	return &proposalRepositoryImpl{db: db}
}

func scanProposalRow(row pgx.Row) (proposalRow, error) {
	var p proposalRow
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Type, &p.Status,
		&p.StartDate, &p.EndDate, &p.Session, &p.LateMinutes,
		&p.EntryID, &p.ComplaintDate, &p.CorrectedStart, &p.CorrectedEnd,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetByID implements proposal.Repository.
func (r *proposalRepositoryImpl) GetByID(ctx context.Context, id string) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	row, err := scanProposalRow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, proposal.ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	windows, err := r.listWindows(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}
	p, err := toProposal(row, windows[row.ID])
	if err != nil {
		return nil, err
	}
	return p, requireKnownType(p)
}

// requireKnownType rejects proposals whose type the HR system never issues. Listing skips them
// silently, but executing one by id is a caller error.
func requireKnownType(p proposal.Proposal) error {
	if !p.Type().Known() {
		return fmt.Errorf("%w: %s", proposal.ErrUnknownProposalType, p.Type())
	}
	return nil
}

// ListApprovedForEmployee implements proposal.Repository.
func (r *proposalRepositoryImpl) ListApprovedForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + proposalColumns + `
		FROM proposals p
		WHERE p.employee_id = $1
		  AND p.status = 'approved'
		  AND (
			(p.start_date <= $3::date AND p.end_date >= $2::date)
			OR p.complaint_date BETWEEN $2::date AND $3::date
			OR EXISTS (
				SELECT 1 FROM overtime_windows w
				WHERE w.proposal_id = p.id AND w.date BETWEEN $2::date AND $3::date
			)
		  )
		ORDER BY p.created_at
	`
	rows, err := q.Query(ctx, query, employeeID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved proposals: %w", err)
	}
	defer rows.Close()

	var (
		proposalRows []proposalRow
		overtimeIDs  []string
	)
	for rows.Next() {
		row, err := scanProposalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposalRows = append(proposalRows, row)
		if proposal.Type(row.Type) == proposal.TypeOvertimeWork {
			overtimeIDs = append(overtimeIDs, row.ID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	windows, err := r.listWindows(ctx, overtimeIDs)
	if err != nil {
		return nil, err
	}

	proposals := make([]proposal.Proposal, 0, len(proposalRows))
	for _, row := range proposalRows {
		p, err := toProposal(row, windows[row.ID])
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func (r *proposalRepositoryImpl) listWindows(ctx context.Context, proposalIDs []string) (map[string][]overtimeWindowRow, error) {
	windows := make(map[string][]overtimeWindowRow)
	if len(proposalIDs) == 0 {
		return windows, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT proposal_id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM overtime_windows
		WHERE proposal_id = ANY($1::uuid[])
		ORDER BY date, start_time
	`
	rows, err := q.Query(ctx, query, proposalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime windows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w overtimeWindowRow
		if err := rows.Scan(&w.ProposalID, &w.Date, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("failed to scan overtime window: %w", err)
		}
		windows[w.ProposalID] = append(windows[w.ProposalID], w)
	}
	return windows, rows.Err()
}

// toProposal maps a stored row onto its proposal variant.
func toProposal(row proposalRow, windows []overtimeWindowRow) (proposal.Proposal, error) {
	base := proposal.Base{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		Status:     proposal.Status(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	dates := proposal.DateRange{}
	if row.StartDate != nil {
		dates.Start = *row.StartDate
	}
	if row.EndDate != nil {
		dates.End = *row.EndDate
	}
	session := schedule.SessionFullDay
	if row.Session != nil && *row.Session != "" {
		session = schedule.Session(*row.Session)
	}

	switch t := proposal.Type(row.Type); t {
	case proposal.TypePaidLeave:
		return proposal.PaidLeave{Base: base, Range: dates, Session: session}, nil
	case proposal.TypeUnpaidLeave:
		return proposal.UnpaidLeave{Base: base, Range: dates, Session: session}, nil
	case proposal.TypeMaternityLeave:
		return proposal.MaternityLeave{Base: base, Range: dates}, nil
	case proposal.TypeLateExemption:
		minutes := 0
		if row.LateMinutes != nil {
			minutes = *row.LateMinutes
		}
		return proposal.LateExemption{Base: base, Range: dates, Minutes: minutes}, nil
	case proposal.TypePostMaternityBenefit:
		return proposal.PostMaternityBenefit{Base: base, Range: dates}, nil
	case proposal.TypeOvertimeWork:
		ot := proposal.OvertimeWork{Base: base}
		for _, w := range windows {
			start, okStart := validator.IsValidClock(w.Start)
			end, okEnd := validator.IsValidClock(w.End)
			if !okStart || !okEnd {
				return nil, fmt.Errorf("invalid overtime window on proposal %s", row.ID)
			}
			ot.Windows = append(ot.Windows, proposal.Window{Date: w.Date, Start: start, End: end})
		}
		return ot, nil
	case proposal.TypeTimesheetComplaint:
		c := proposal.TimesheetComplaint{
			Base:           base,
			EntryID:        row.EntryID,
			CorrectedStart: row.CorrectedStart,
			CorrectedEnd:   row.CorrectedEnd,
		}
		if row.ComplaintDate != nil {
			c.Date = *row.ComplaintDate
		}
		return c, nil
	default:
		// Transfers, device changes and types added upstream later carry nothing the engine reads.
		return proposal.Other{Base: base, Kind: t}, nil
	}
}
