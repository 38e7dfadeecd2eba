package dashboard

import (
	"context"
)

// StaffCounts is a business-wide headcount in a single query.
type StaffCounts struct {
	Total  int
	Active int
}

// DashboardRepository holds the aggregates that no other repository owns.
type DashboardRepository interface {
	StaffCounts(ctx context.Context, businessID string) (StaffCounts, error)
	// AverageRating averages non-draft review ratings; zero when there are none.
	AverageRating(ctx context.Context, businessID string) (float64, error)
}
