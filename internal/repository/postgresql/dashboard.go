package postgresql

import (
	"context"
	"fmt"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// StaffCounts implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) StaffCounts(ctx context.Context, businessID string) (dashboard.StaffCounts, error) {
	q := GetQuerier(ctx, r.db)

	var c dashboard.StaffCounts
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active')
		FROM staff
		WHERE business_id = $1 AND deleted_at IS NULL`, businessID).Scan(&c.Total, &c.Active)
	if err != nil {
		return dashboard.StaffCounts{}, fmt.Errorf("failed to count staff: %w", err)
	}
	return c, nil
}

// AverageRating implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) AverageRating(ctx context.Context, businessID string) (float64, error) {
	q := GetQuerier(ctx, r.db)

	var avg float64
	err := q.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(overall_rating), 2), 0)::float8
		FROM staff_performance_reviews
		WHERE business_id = $1 AND status <> 'draft'`, businessID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}
