package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProposal(t *testing.T) {
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)
	morning := string(schedule.SessionMorning)
	minutes := 45
	entryID := "entry-1"

	row := func(typ string) proposalRow {
		return proposalRow{ID: "p-1", EmployeeID: "e-1", Type: typ, Status: "approved", StartDate: &start, EndDate: &end}
	}

	t.Run("leave defaults to a full day", func(t *testing.T) {
		p, err := toProposal(row("paid_leave"), nil)
		require.NoError(t, err)

		leave, ok := p.(proposal.PaidLeave)
		require.True(t, ok)
		assert.Equal(t, schedule.SessionFullDay, leave.Session)
		assert.True(t, leave.IsApproved())
		assert.True(t, leave.Covers(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("half-day unpaid leave", func(t *testing.T) {
		r := row("unpaid_leave")
		r.Session = &morning
		p, err := toProposal(r, nil)
		require.NoError(t, err)
		assert.Equal(t, schedule.SessionMorning, p.(proposal.UnpaidLeave).Session)
	})

	t.Run("late exemption minutes", func(t *testing.T) {
		r := row("late_exemption")
		r.LateMinutes = &minutes
		p, err := toProposal(r, nil)
		require.NoError(t, err)
		assert.Equal(t, 45, p.(proposal.LateExemption).Minutes)
	})

	t.Run("unresolved range covers nothing", func(t *testing.T) {
		r := row("maternity_leave")
		r.EndDate = nil
		p, err := toProposal(r, nil)
		require.NoError(t, err)
		assert.False(t, p.Covers(start))
		_, _, ok := p.Span()
		assert.False(t, ok)
	})

	t.Run("overtime windows", func(t *testing.T) {
		p, err := toProposal(row("overtime_work"), []overtimeWindowRow{
			{ProposalID: "p-1", Date: start, Start: "17:00", End: "19:30"},
		})
		require.NoError(t, err)

		ot := p.(proposal.OvertimeWork)
		require.Len(t, ot.Windows, 1)
		assert.Equal(t, 150, ot.Windows[0].Minutes())
		assert.True(t, ot.Covers(start))
	})

	t.Run("malformed overtime window", func(t *testing.T) {
		_, err := toProposal(row("overtime_work"), []overtimeWindowRow{
			{ProposalID: "p-1", Date: start, Start: "late", End: "19:30"},
		})
		assert.Error(t, err)
	})

	t.Run("complaint", func(t *testing.T) {
		r := row("timesheet_complaint")
		r.EntryID = &entryID
		r.ComplaintDate = &start
		p, err := toProposal(r, nil)
		require.NoError(t, err)

		c := p.(proposal.TimesheetComplaint)
		require.NotNil(t, c.EntryID)
		assert.Equal(t, "entry-1", *c.EntryID)
		assert.True(t, c.Covers(start))
	})

	t.Run("kinds the engine ignores", func(t *testing.T) {
		p, err := toProposal(row("device_change"), nil)
		require.NoError(t, err)
		assert.Equal(t, proposal.TypeDeviceChange, p.Type())
		assert.False(t, p.Covers(start))
	})

	t.Run("unknown type is carried as an ignored kind", func(t *testing.T) {
		p, err := toProposal(row("business_trip"), nil)
		require.NoError(t, err)

		other, ok := p.(proposal.Other)
		require.True(t, ok)
		assert.Equal(t, proposal.Type("business_trip"), other.Kind)
		assert.False(t, p.Covers(start))
		assert.Empty(t, proposal.ApprovedOn([]proposal.Proposal{p}, start))
	})
}

func TestRequireKnownType(t *testing.T) {
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	base := proposalRow{ID: "p-1", EmployeeID: "e-1", Status: "approved", StartDate: &start, EndDate: &start}

	known := base
	known.Type = "transfer"
	p, err := toProposal(known, nil)
	require.NoError(t, err)
	assert.NoError(t, requireKnownType(p))

	unknown := base
	unknown.Type = "business_trip"
	p, err = toProposal(unknown, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, requireKnownType(p), proposal.ErrUnknownProposalType)
}
