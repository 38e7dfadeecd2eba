package http

import (
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/performance"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler interface {
	ListReviews(w http.ResponseWriter, r *http.Request)
	GetReview(w http.ResponseWriter, r *http.Request)
	CreateReview(w http.ResponseWriter, r *http.Request)
	UpdateReview(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
	SubmitReview(w http.ResponseWriter, r *http.Request)
	AcknowledgeReview(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type reviewHandlerImpl struct {
	reviewService performance.ReviewService
}

func NewReviewHandler(reviewService performance.ReviewService) ReviewHandler {
	return &reviewHandlerImpl{reviewService: reviewService}
}

func (h *reviewHandlerImpl) ListReviews(w http.ResponseWriter, r *http.Request) {
	filter := performance.ReviewFilter{
		StaffID:   optionalQuery(r, "staff_id"),
		Status:    optionalQuery(r, "status"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Page:      intQuery(r, "page", 1),
		Limit:     intQuery(r, "limit", 20),
	}

	result, err := h.reviewService.ListReviews(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paged(w, result.Reviews, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *reviewHandlerImpl) GetReview(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reviewHandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req performance.CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reviewService.CreateReview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Review created successfully", result)
}

func (h *reviewHandlerImpl) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req performance.UpdateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.reviewService.UpdateReview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review updated successfully", result)
}

func (h *reviewHandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewService.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review deleted successfully", nil)
}

func (h *reviewHandlerImpl) SubmitReview(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.SubmitReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review submitted", result)
}

func (h *reviewHandlerImpl) AcknowledgeReview(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.AcknowledgeReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review acknowledged", result)
}

// GetSummary returns the rating history and trend for the staff member in the path.
func (h *reviewHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
