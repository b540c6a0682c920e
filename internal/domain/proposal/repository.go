package proposal

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Proposal, error)

	// ListApprovedForEmployee returns approved proposals of the employee whose dates
	// intersect from..to. Callers still filter per date with ApprovedOn.
	ListApprovedForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Proposal, error)
}
