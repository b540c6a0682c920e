package proposal

import "context"

// ProposalService is called by the approval workflow once a decision has been recorded.
type ProposalService interface {
	// Execute applies an approved proposal and recalculates the dates it covers.
	Execute(ctx context.Context, id string) (ExecutionResponse, error)

	// Revoke recalculates the dates of a proposal that was rejected or cancelled after approval.
	Revoke(ctx context.Context, id string) (ExecutionResponse, error)
}
