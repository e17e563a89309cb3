package rfqs

import "context"

// Repo defines persistence operations for RFQs and their vendor
// assignments.
type Repo interface {
	Create(ctx context.Context, rfq RFQ) error
	GetByID(ctx context.Context, rfqID string) (RFQ, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]RFQ, error)
	UpdateStatus(ctx context.Context, rfqID, status string) error
	AddAssignments(ctx context.Context, assignments []Assignment) error
	ListAssignments(ctx context.Context, rfqID string) ([]Assignment, error)
}
