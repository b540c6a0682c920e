package proposal

import (
	"errors"
	"fmt"
)

var (
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrProposalNotApproved    = errors.New("proposal is not approved")
	ErrOvertimeWithoutWindows = errors.New("overtime proposal has no overtime windows")
	ErrComplaintWithoutEntry  = errors.New("timesheet complaint is not linked to a timesheet entry")
	ErrUnknownProposalType    = errors.New("unknown proposal type")
)

// ExecutionError is returned when an approved proposal carries no executable data.
type ExecutionError struct {
	ProposalID string
	Type       Type
	Cause      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("cannot execute %s proposal %s: %v", e.Type, e.ProposalID, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
