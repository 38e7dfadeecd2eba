package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `
	pr.id, pr.business_id, pr.staff_id, pr.reviewer_id, pr.period_start, pr.period_end,
	pr.review_date, pr.overall_rating::float8, pr.category_ratings, pr.goals, pr.achievements,
	pr.strengths, pr.areas_for_improvement, pr.comments, pr.status, pr.submitted_at,
	pr.acknowledged_at, pr.created_at, pr.updated_at,
	s.first_name || ' ' || s.last_name,
	CASE WHEN rv.id IS NULL THEN NULL ELSE rv.first_name || ' ' || rv.last_name END`

const reviewJoins = `
	JOIN staff s ON s.id = pr.staff_id
	LEFT JOIN staff rv ON rv.id = pr.reviewer_id`

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) performance.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

func scanReview(row pgx.Row) (performance.StaffPerformanceReview, error) {
	var pr performance.StaffPerformanceReview
	err := row.Scan(
		&pr.ID, &pr.BusinessID, &pr.StaffID, &pr.ReviewerID, &pr.PeriodStart, &pr.PeriodEnd,
		&pr.ReviewDate, &pr.OverallRating, &pr.CategoryRatings, &pr.Goals, &pr.Achievements,
		&pr.Strengths, &pr.AreasForImprovement, &pr.Comments, &pr.Status, &pr.SubmittedAt,
		&pr.AcknowledgedAt, &pr.CreatedAt, &pr.UpdatedAt,
		&pr.StaffName, &pr.ReviewerName,
	)
	if err != nil {
		return performance.StaffPerformanceReview{}, err
	}
	if pr.CategoryRatings == nil {
		pr.CategoryRatings = map[string]float64{}
	}
	return pr, nil
}

func collectReviews(rows pgx.Rows) ([]performance.StaffPerformanceReview, error) {
	defer rows.Close()
	reviews := []performance.StaffPerformanceReview{}
	for rows.Next() {
		pr, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, pr)
	}
	return reviews, rows.Err()
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// Create implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) Create(ctx context.Context, pr performance.StaffPerformanceReview) (performance.StaffPerformanceReview, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pr AS (
			INSERT INTO staff_performance_reviews (
				business_id, staff_id, reviewer_id, period_start, period_end, review_date,
				overall_rating, category_ratings, goals, achievements, strengths,
				areas_for_improvement, comments, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING *
		)
		SELECT` + reviewColumns + `
		FROM pr` + reviewJoins

	categories := pr.CategoryRatings
	if categories == nil {
		categories = map[string]float64{}
	}

	created, err := scanReview(q.QueryRow(ctx, query,
		pr.BusinessID, pr.StaffID, pr.ReviewerID, pr.PeriodStart, pr.PeriodEnd, pr.ReviewDate,
		pr.OverallRating, categories, nonNilStrings(pr.Goals), nonNilStrings(pr.Achievements), pr.Strengths,
		pr.AreasForImprovement, pr.Comments, pr.Status,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return performance.StaffPerformanceReview{}, staff.ErrStaffNotFound
		}
		return performance.StaffPerformanceReview{}, fmt.Errorf("failed to create review: %w", err)
	}
	return created, nil
}

// GetByID implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (performance.StaffPerformanceReview, error) {
	q := GetQuerier(ctx, r.db)

	pr, err := scanReview(q.QueryRow(ctx, `SELECT`+reviewColumns+`
		FROM staff_performance_reviews pr`+reviewJoins+`
		WHERE pr.id = $1 AND pr.business_id = $2`, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.StaffPerformanceReview{}, performance.ErrReviewNotFound
		}
		return performance.StaffPerformanceReview{}, fmt.Errorf("failed to get review: %w", err)
	}
	return pr, nil
}

// List implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) List(ctx context.Context, filter performance.ReviewFilter, businessID string) ([]performance.StaffPerformanceReview, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"pr.business_id = $1"}
	args := []interface{}{businessID}
	argIdx := 2

	if filter.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("pr.staff_id = $%d", argIdx))
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("pr.review_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("pr.review_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff_performance_reviews pr WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM staff_performance_reviews pr %s
		WHERE %s
		ORDER BY pr.review_date DESC, pr.created_at DESC
		LIMIT $%d OFFSET $%d`, reviewColumns, reviewJoins, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update implements performance.ReviewRepository. Only drafts are written.
func (r *reviewRepositoryImpl) Update(ctx context.Context, pr performance.StaffPerformanceReview) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE staff_performance_reviews
		SET overall_rating = $1, category_ratings = $2, goals = $3, achievements = $4,
			strengths = $5, areas_for_improvement = $6, comments = $7, updated_at = NOW()
		WHERE id = $8 AND business_id = $9 AND status = 'draft'`,
		pr.OverallRating, pr.CategoryRatings, nonNilStrings(pr.Goals), nonNilStrings(pr.Achievements),
		pr.Strengths, pr.AreasForImprovement, pr.Comments, pr.ID, pr.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return performance.ErrReviewNotEditable
	}
	return nil
}

// UpdateStatus implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) UpdateStatus(ctx context.Context, id string, businessID string, from, to performance.Status, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	stamp := "submitted_at"
	if to == performance.StatusAcknowledged {
		stamp = "acknowledged_at"
	}

	query := fmt.Sprintf(`
		UPDATE staff_performance_reviews
		SET status = $1, %s = $2, updated_at = NOW()
		WHERE id = $3 AND business_id = $4 AND status = $5`, stamp)

	tag, err := q.Exec(ctx, query, to, at, id, businessID, from)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if from == performance.StatusDraft {
			return performance.ErrReviewNotEditable
		}
		return performance.ErrReviewNotSubmitted
	}
	return nil
}

// Delete implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM staff_performance_reviews
		WHERE id = $1 AND business_id = $2 AND status = 'draft'`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return performance.ErrReviewNotEditable
	}
	return nil
}

// ListForStaff implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) ListForStaff(ctx context.Context, staffID string, businessID string, start, end *time.Time) ([]performance.StaffPerformanceReview, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+reviewColumns+`
		FROM staff_performance_reviews pr`+reviewJoins+`
		WHERE pr.staff_id = $1 AND pr.business_id = $2 AND pr.status <> 'draft'
			AND ($3::date IS NULL OR pr.review_date >= $3)
			AND ($4::date IS NULL OR pr.review_date <= $4)
		ORDER BY pr.review_date, pr.created_at`, staffID, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff reviews: %w", err)
	}
	return collectReviews(rows)
}
