package http

import (
	"net"
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/activity"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ActivityHandler interface {
	StartSession(w http.ResponseWriter, r *http.Request)
	RecordEvents(w http.ResponseWriter, r *http.Request)
	Heartbeat(w http.ResponseWriter, r *http.Request)
	EndSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	ListLogs(w http.ResponseWriter, r *http.Request)
	OnlineStaff(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type activityHandlerImpl struct {
	activityService activity.ActivityService
}

func NewActivityHandler(activityService activity.ActivityService) ActivityHandler {
	return &activityHandlerImpl{activityService: activityService}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StartSession opens a session for the caller, recording where it came from.
func (h *activityHandlerImpl) StartSession(w http.ResponseWriter, r *http.Request) {
	req := activity.StartSessionRequest{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.activityService.StartSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Session started", result)
}

func (h *activityHandlerImpl) RecordEvents(w http.ResponseWriter, r *http.Request) {
	var req activity.RecordEventsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SessionID = chi.URLParam(r, "sid")

	result, err := h.activityService.RecordEvents(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *activityHandlerImpl) Heartbeat(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.Heartbeat(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *activityHandlerImpl) EndSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.EndSession(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Session ended", result)
}

func (h *activityHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.GetSession(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *activityHandlerImpl) ListSessions(w http.ResponseWriter, r *http.Request) {
	filter := activity.SessionFilter{
		StaffID:   optionalQuery(r, "staff_id"),
		Status:    optionalQuery(r, "status"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Page:      intQuery(r, "page", 1),
		Limit:     intQuery(r, "limit", 20),
	}

	result, err := h.activityService.ListSessions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paged(w, result.Sessions, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *activityHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	filter := activity.LogFilter{
		StaffID:    optionalQuery(r, "staff_id"),
		SessionID:  optionalQuery(r, "session_id"),
		ActionType: optionalQuery(r, "action_type"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Page:       intQuery(r, "page", 1),
		Limit:      intQuery(r, "limit", 50),
	}

	result, err := h.activityService.ListLogs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paged(w, result.Logs, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *activityHandlerImpl) OnlineStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.OnlineStaff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *activityHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := activity.SummaryRequest{
		StaffID:   chi.URLParam(r, "id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.activityService.GetSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
