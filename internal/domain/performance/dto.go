package performance

import (
	"strings"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

type CreateReviewRequest struct {
	StaffID             string             `json:"staff_id"`
	PeriodStart         string             `json:"period_start"`
	PeriodEnd           string             `json:"period_end"`
	ReviewDate          string             `json:"review_date,omitempty"`
	OverallRating       float64            `json:"overall_rating"`
	CategoryRatings     map[string]float64 `json:"category_ratings,omitempty"`
	Goals               []string           `json:"goals,omitempty"`
	Achievements        []string           `json:"achievements,omitempty"`
	Strengths           *string            `json:"strengths,omitempty"`
	AreasForImprovement *string            `json:"areas_for_improvement,omitempty"`
	Comments            *string            `json:"comments,omitempty"`
}

func (r *CreateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	_, _, rangeErrs := validator.ValidateDateRange("period_start", r.PeriodStart, "period_end", r.PeriodEnd, 0)
	errs = append(errs, rangeErrs...)
	if r.ReviewDate != "" {
		if _, ok := validator.IsValidDate(r.ReviewDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "review_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	errs = append(errs, validateRatings(&r.OverallRating, r.CategoryRatings)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateReviewRequest struct {
	ID                  string             `json:"-"`
	OverallRating       *float64           `json:"overall_rating,omitempty"`
	CategoryRatings     map[string]float64 `json:"category_ratings,omitempty"`
	Goals               []string           `json:"goals,omitempty"`
	Achievements        []string           `json:"achievements,omitempty"`
	Strengths           *string            `json:"strengths,omitempty"`
	AreasForImprovement *string            `json:"areas_for_improvement,omitempty"`
	Comments            *string            `json:"comments,omitempty"`
}

func (r *UpdateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	errs = append(errs, validateRatings(r.OverallRating, r.CategoryRatings)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRatings(overall *float64, categories map[string]float64) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if overall != nil && (*overall < MinRating || *overall > MaxRating) {
		errs = append(errs, validator.ValidationError{Field: "overall_rating", Message: "must be between 1 and 5"})
	}
	for name, rating := range categories {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, validator.ValidationError{Field: "category_ratings", Message: "category names must not be empty"})
			continue
		}
		if rating < MinRating || rating > MaxRating {
			errs = append(errs, validator.ValidationError{Field: "category_ratings." + name, Message: "must be between 1 and 5"})
		}
	}
	return errs
}

type ReviewFilter struct {
	StaffID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *ReviewFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be at most 100"})
	}
	if f.StaffID != nil && !validator.IsValidUUID(*f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewResponse struct {
	ID                  string             `json:"id"`
	StaffID             string             `json:"staff_id"`
	StaffName           string             `json:"staff_name,omitempty"`
	ReviewerID          *string            `json:"reviewer_id,omitempty"`
	ReviewerName        *string            `json:"reviewer_name,omitempty"`
	PeriodStart         string             `json:"period_start"`
	PeriodEnd           string             `json:"period_end"`
	ReviewDate          string             `json:"review_date"`
	OverallRating       float64            `json:"overall_rating"`
	CategoryRatings     map[string]float64 `json:"category_ratings"`
	Goals               []string           `json:"goals"`
	Achievements        []string           `json:"achievements"`
	Strengths           *string            `json:"strengths,omitempty"`
	AreasForImprovement *string            `json:"areas_for_improvement,omitempty"`
	Comments            *string            `json:"comments,omitempty"`
	Status              string             `json:"status"`
	SubmittedAt         *string            `json:"submitted_at,omitempty"`
	AcknowledgedAt      *string            `json:"acknowledged_at,omitempty"`
}

type ListReviewResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Reviews    []ReviewResponse `json:"reviews"`
}
