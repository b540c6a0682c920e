package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActiveIDs returns the ids of every active employee, ordered by id.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
