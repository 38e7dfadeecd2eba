package document

import (
	"context"
	"time"
)

type DocumentRepository interface {
	Create(ctx context.Context, d StaffDocument) (StaffDocument, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffDocument, error)
	ListByStaff(ctx context.Context, staffID string, businessID string) ([]StaffDocument, error)
	Delete(ctx context.Context, id string, businessID string) error
	// ListExpiring returns documents with an expiry date in [from, until], soonest first.
	ListExpiring(ctx context.Context, businessID string, from, until time.Time) ([]StaffDocument, error)
}
