package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timesheet"
)

// Dispatcher accepts recalculation events.
type Dispatcher interface {
	Handle(ctx context.Context, event timesheet.RecalculationEvent) (timesheet.RecalculationResult, error)
}

type ProposalServiceImpl struct {
	tx         timesheet.Transactor
	proposals  proposal.Repository
	entries    timesheet.EntryRepository
	dispatcher Dispatcher
	loc        *time.Location
}

func NewProposalService(
	tx timesheet.Transactor,
	proposals proposal.Repository,
	entries timesheet.EntryRepository,
	dispatcher Dispatcher,
	loc *time.Location,
) *ProposalServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &ProposalServiceImpl{
		tx:         tx,
		proposals:  proposals,
		entries:    entries,
		dispatcher: dispatcher,
		loc:        loc,
	}
}

// Execute implements proposal.ProposalService.
func (s *ProposalServiceImpl) Execute(ctx context.Context, id string) (proposal.ExecutionResponse, error) {
	p, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return proposal.ExecutionResponse{}, err
	}
	if !p.Meta().IsApproved() {
		return proposal.ExecutionResponse{}, proposal.ErrProposalNotApproved
	}

	from, to, ok := p.Span()
	switch v := p.(type) {
	case proposal.OvertimeWork:
		if !ok {
			return proposal.ExecutionResponse{}, &proposal.ExecutionError{
				ProposalID: v.ID,
				Type:       v.Type(),
				Cause:      proposal.ErrOvertimeWithoutWindows,
			}
		}
	case proposal.TimesheetComplaint:
		entry, err := s.correctEntry(ctx, v)
		if err != nil {
			return proposal.ExecutionResponse{}, err
		}
		from, to, ok = entry.Date, entry.Date, true
	}

	return s.dispatch(ctx, p, timesheet.SourceProposalApproved, from, to, ok)
}

// Revoke implements proposal.ProposalService.
func (s *ProposalServiceImpl) Revoke(ctx context.Context, id string) (proposal.ExecutionResponse, error) {
	p, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return proposal.ExecutionResponse{}, err
	}
	from, to, ok := p.Span()
	return s.dispatch(ctx, p, timesheet.SourceProposalRejected, from, to, ok)
}

// correctEntry replaces the punches of the complained entry and freezes them.
func (s *ProposalServiceImpl) correctEntry(ctx context.Context, c proposal.TimesheetComplaint) (timesheet.Entry, error) {
	if c.EntryID == nil || *c.EntryID == "" {
		return timesheet.Entry{}, &proposal.ExecutionError{
			ProposalID: c.ID,
			Type:       c.Type(),
			Cause:      proposal.ErrComplaintWithoutEntry,
		}
	}

	var entry timesheet.Entry
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entries.GetByIDForUpdate(ctx, *c.EntryID)
		if err != nil {
			if errors.Is(err, timesheet.ErrEntryNotFound) {
				return &proposal.ExecutionError{
					ProposalID: c.ID,
					Type:       c.Type(),
					Cause:      proposal.ErrComplaintWithoutEntry,
				}
			}
			return fmt.Errorf("failed to get complained timesheet entry: %w", err)
		}

		if c.CorrectedStart != nil {
			start := *c.CorrectedStart
			entry.StartTime = &start
		}
		if c.CorrectedEnd != nil {
			end := *c.CorrectedEnd
			entry.EndTime = &end
		}
		entry.IsManuallyCorrected = true

		if err := s.entries.Save(ctx, entry); err != nil {
			return fmt.Errorf("failed to save corrected timesheet entry: %w", err)
		}
		return nil
	})
	return entry, err
}

func (s *ProposalServiceImpl) dispatch(ctx context.Context, p proposal.Proposal, source timesheet.EventSource, from, to time.Time, ok bool) (proposal.ExecutionResponse, error) {
	resp := proposal.ExecutionResponse{
		ProposalID: p.Meta().ID,
		Type:       string(p.Type()),
		Source:     string(source),
	}
	if !ok {
		// Nothing resolvable to recalculate.
		return resp, nil
	}

	result, err := s.dispatcher.Handle(ctx, timesheet.RecalculationEvent{
		Source:     source,
		EmployeeID: p.Meta().EmployeeID,
		From:       s.day(from),
		To:         s.day(to),
	})
	if err != nil {
		return proposal.ExecutionResponse{}, err
	}
	resp.Processed = result.Processed
	resp.Failed = result.Failed
	return resp, nil
}

func (s *ProposalServiceImpl) day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}
