package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/dashboard"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const streamKeepalive = 30 * time.Second

// EventSubscriber is the read side of the SSE hub.
type EventSubscriber interface {
	Subscribe(businessID string) (<-chan sse.Event, func())
}

type DashboardHandler interface {
	// GetDashboard returns the composition for the caller's role
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetRoleDashboard returns the composition of the role in the path
	GetRoleDashboard(w http.ResponseWriter, r *http.Request)
	// StreamToken issues a short-lived token for the event stream
	StreamToken(w http.ResponseWriter, r *http.Request)
	// Stream serves live attendance and shift events over SSE
	Stream(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	jwtService       jwt.Service
	events           EventSubscriber
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, jwtService jwt.Service, events EventSubscriber) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		jwtService:       jwtService,
		events:           events,
	}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRoleDashboard handles GET /dashboard/{role}
func (h *dashboardHandlerImpl) GetRoleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetRoleDashboard(r.Context(), chi.URLParam(r, "role"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StreamToken handles POST /dashboard/stream-token
func (h *dashboardHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(claims)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream handles GET /dashboard/stream?token=...
func (h *dashboardHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the stream token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	claims, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(claims.BusinessID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"business_id\":%q}\n\n", claims.BusinessID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
