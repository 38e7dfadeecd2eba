package performance

import (
	"context"
	"time"
)

type ReviewRepository interface {
	Create(ctx context.Context, r StaffPerformanceReview) (StaffPerformanceReview, error)
	GetByID(ctx context.Context, id string, businessID string) (StaffPerformanceReview, error)
	List(ctx context.Context, filter ReviewFilter, businessID string) ([]StaffPerformanceReview, int64, error)
	Update(ctx context.Context, r StaffPerformanceReview) error
	// UpdateStatus transitions from -> to and stamps the matching timestamp.
	UpdateStatus(ctx context.Context, id string, businessID string, from, to Status, at time.Time) error
	Delete(ctx context.Context, id string, businessID string) error

	// ListForStaff returns non-draft reviews ordered by review_date ascending.
	ListForStaff(ctx context.Context, staffID string, businessID string, start, end *time.Time) ([]StaffPerformanceReview, error)
}
