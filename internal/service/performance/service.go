package performance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

// StaffLookup resolves a staff member within a business.
type StaffLookup interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
}

type ReviewServiceImpl struct {
	reviewRepo performance.ReviewRepository
	staffRepo  StaffLookup
	now        func() time.Time
}

func NewReviewService(reviewRepo performance.ReviewRepository, staffRepo StaffLookup) performance.ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		staffRepo:  staffRepo,
		now:        time.Now,
	}
}

// CreateReview implements performance.ReviewService.
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, req performance.CreateReviewRequest) (performance.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if claims.StaffID == req.StaffID {
		return performance.ReviewResponse{}, performance.ErrCannotReviewSelf
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, claims.BusinessID); err != nil {
		return performance.ReviewResponse{}, err
	}

	periodStart, _ := validator.IsValidDate(req.PeriodStart)
	periodEnd, _ := validator.IsValidDate(req.PeriodEnd)
	reviewDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.ReviewDate != "" {
		reviewDate, _ = validator.IsValidDate(req.ReviewDate)
	}

	review := performance.StaffPerformanceReview{
		BusinessID:          claims.BusinessID,
		StaffID:             req.StaffID,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		ReviewDate:          reviewDate,
		OverallRating:       req.OverallRating,
		CategoryRatings:     req.CategoryRatings,
		Goals:               req.Goals,
		Achievements:        req.Achievements,
		Strengths:           req.Strengths,
		AreasForImprovement: req.AreasForImprovement,
		Comments:            req.Comments,
		Status:              performance.StatusDraft,
	}
	if claims.StaffID != "" {
		review.ReviewerID = &claims.StaffID
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	return mapReviewToResponse(created), nil
}

// getVisible loads a review the caller may read.
func (s *ReviewServiceImpl) getVisible(ctx context.Context, id string) (performance.StaffPerformanceReview, jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return performance.StaffPerformanceReview{}, jwt.Claims{}, err
	}

	review, err := s.reviewRepo.GetByID(ctx, id, claims.BusinessID)
	if err != nil {
		return performance.StaffPerformanceReview{}, jwt.Claims{}, err
	}
	if claims.Can(staff.PermissionPerformanceView) {
		return review, claims, nil
	}
	// staff see their own reviews once they leave draft
	if review.StaffID != claims.StaffID || review.Status == performance.StatusDraft {
		return performance.StaffPerformanceReview{}, jwt.Claims{}, performance.ErrUnauthorized
	}
	return review, claims, nil
}

// GetReview implements performance.ReviewService.
func (s *ReviewServiceImpl) GetReview(ctx context.Context, id string) (performance.ReviewResponse, error) {
	review, _, err := s.getVisible(ctx, id)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	return mapReviewToResponse(review), nil
}

// ListReviews implements performance.ReviewService.
func (s *ReviewServiceImpl) ListReviews(ctx context.Context, filter performance.ReviewFilter) (performance.ListReviewResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return performance.ListReviewResponse{}, err
	}
	if !claims.Can(staff.PermissionPerformanceView) {
		if claims.StaffID == "" {
			return performance.ListReviewResponse{}, performance.ErrUnauthorized
		}
		filter.StaffID = &claims.StaffID
		if filter.Status != nil && *filter.Status == string(performance.StatusDraft) {
			return performance.ListReviewResponse{}, performance.ErrUnauthorized
		}
	}
	if err := filter.Validate(); err != nil {
		return performance.ListReviewResponse{}, err
	}

	reviews, total, err := s.reviewRepo.List(ctx, filter, claims.BusinessID)
	if err != nil {
		return performance.ListReviewResponse{}, fmt.Errorf("failed to list reviews: %w", err)
	}

	resp := performance.ListReviewResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Reviews:    make([]performance.ReviewResponse, 0, len(reviews)),
	}
	for _, r := range reviews {
		if !claims.Can(staff.PermissionPerformanceView) && r.Status == performance.StatusDraft {
			continue
		}
		resp.Reviews = append(resp.Reviews, mapReviewToResponse(r))
	}
	return resp, nil
}

// UpdateReview implements performance.ReviewService.
func (s *ReviewServiceImpl) UpdateReview(ctx context.Context, req performance.UpdateReviewRequest) (performance.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.ReviewResponse{}, err
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	review, err := s.reviewRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if review.Status != performance.StatusDraft {
		return performance.ReviewResponse{}, performance.ErrReviewNotEditable
	}

	if req.OverallRating != nil {
		review.OverallRating = *req.OverallRating
	}
	if req.CategoryRatings != nil {
		review.CategoryRatings = req.CategoryRatings
	}
	if req.Goals != nil {
		review.Goals = req.Goals
	}
	if req.Achievements != nil {
		review.Achievements = req.Achievements
	}
	if req.Strengths != nil {
		review.Strengths = req.Strengths
	}
	if req.AreasForImprovement != nil {
		review.AreasForImprovement = req.AreasForImprovement
	}
	if req.Comments != nil {
		review.Comments = req.Comments
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return performance.ReviewResponse{}, err
	}
	return mapReviewToResponse(review), nil
}

// SubmitReview implements performance.ReviewService.
func (s *ReviewServiceImpl) SubmitReview(ctx context.Context, id string) (performance.ReviewResponse, error) {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	if err := s.reviewRepo.UpdateStatus(ctx, id, businessID, performance.StatusDraft, performance.StatusSubmitted, s.now().UTC()); err != nil {
		return performance.ReviewResponse{}, err
	}

	review, err := s.reviewRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	return mapReviewToResponse(review), nil
}

// AcknowledgeReview implements performance.ReviewService.
func (s *ReviewServiceImpl) AcknowledgeReview(ctx context.Context, id string) (performance.ReviewResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return performance.ReviewResponse{}, err
	}

	review, err := s.reviewRepo.GetByID(ctx, id, claims.BusinessID)
	if err != nil {
		return performance.ReviewResponse{}, err
	}
	if review.StaffID != claims.StaffID {
		return performance.ReviewResponse{}, performance.ErrNotReviewedStaff
	}
	if review.Status != performance.StatusSubmitted {
		return performance.ReviewResponse{}, performance.ErrReviewNotSubmitted
	}

	now := s.now().UTC()
	if err := s.reviewRepo.UpdateStatus(ctx, id, claims.BusinessID, performance.StatusSubmitted, performance.StatusAcknowledged, now); err != nil {
		return performance.ReviewResponse{}, err
	}

	review.Status = performance.StatusAcknowledged
	review.AcknowledgedAt = &now
	return mapReviewToResponse(review), nil
}

// DeleteReview implements performance.ReviewService.
func (s *ReviewServiceImpl) DeleteReview(ctx context.Context, id string) error {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}

	review, err := s.reviewRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return err
	}
	if review.Status != performance.StatusDraft {
		return performance.ErrReviewNotEditable
	}
	return s.reviewRepo.Delete(ctx, id, businessID)
}

// GetSummary implements performance.ReviewService.
func (s *ReviewServiceImpl) GetSummary(ctx context.Context, staffID string) (performance.Summary, error) {
	if !validator.IsValidUUID(staffID) {
		return performance.Summary{}, validator.ValidationErrors{{Field: "staff_id", Message: "must be a valid UUID"}}
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return performance.Summary{}, err
	}
	if !claims.Can(staff.PermissionPerformanceView) && staffID != claims.StaffID {
		return performance.Summary{}, performance.ErrUnauthorized
	}

	if _, err := s.staffRepo.GetByID(ctx, staffID, claims.BusinessID); err != nil {
		return performance.Summary{}, err
	}

	reviews, err := s.reviewRepo.ListForStaff(ctx, staffID, claims.BusinessID, nil, nil)
	if err != nil {
		return performance.Summary{}, err
	}
	return performance.Summarize(staffID, reviews), nil
}

func mapReviewToResponse(r performance.StaffPerformanceReview) performance.ReviewResponse {
	resp := performance.ReviewResponse{
		ID:                  r.ID,
		StaffID:             r.StaffID,
		StaffName:           r.StaffName,
		ReviewerID:          r.ReviewerID,
		ReviewerName:        r.ReviewerName,
		PeriodStart:         r.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:           r.PeriodEnd.Format(validator.DateLayout),
		ReviewDate:          r.ReviewDate.Format(validator.DateLayout),
		OverallRating:       r.OverallRating,
		CategoryRatings:     r.CategoryRatings,
		Goals:               r.Goals,
		Achievements:        r.Achievements,
		Strengths:           r.Strengths,
		AreasForImprovement: r.AreasForImprovement,
		Comments:            r.Comments,
		Status:              string(r.Status),
	}
	if resp.CategoryRatings == nil {
		resp.CategoryRatings = map[string]float64{}
	}
	if resp.Goals == nil {
		resp.Goals = []string{}
	}
	if resp.Achievements == nil {
		resp.Achievements = []string{}
	}
	if r.SubmittedAt != nil {
		v := r.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if r.AcknowledgedAt != nil {
		v := r.AcknowledgedAt.Format(time.RFC3339)
		resp.AcknowledgedAt = &v
	}
	return resp
}
