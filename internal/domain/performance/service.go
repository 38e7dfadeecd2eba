package performance

import "context"

type ReviewService interface {
	CreateReview(ctx context.Context, req CreateReviewRequest) (ReviewResponse, error)
	GetReview(ctx context.Context, id string) (ReviewResponse, error)
	ListReviews(ctx context.Context, filter ReviewFilter) (ListReviewResponse, error)
	UpdateReview(ctx context.Context, req UpdateReviewRequest) (ReviewResponse, error)
	SubmitReview(ctx context.Context, id string) (ReviewResponse, error)
	AcknowledgeReview(ctx context.Context, id string) (ReviewResponse, error)
	DeleteReview(ctx context.Context, id string) error
	GetSummary(ctx context.Context, staffID string) (Summary, error)
}
