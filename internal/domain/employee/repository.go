package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
	// GetActiveWithAssignment returns active employees that have a salary
	// structure assignment effective on or before asOf.
	GetActiveWithAssignment(ctx context.Context, asOf time.Time) ([]Employee, error)
}
