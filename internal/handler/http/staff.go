package http

import (
	"log/slog"
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 10 << 20

type StaffHandler interface {
	ListStaff(w http.ResponseWriter, r *http.Request)
	GetStaff(w http.ResponseWriter, r *http.Request)
	CreateStaff(w http.ResponseWriter, r *http.Request)
	UpdateStaff(w http.ResponseWriter, r *http.Request)
	DeleteStaff(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	SetPIN(w http.ResponseWriter, r *http.Request)
	UploadAvatar(w http.ResponseWriter, r *http.Request)
	GetPermissions(w http.ResponseWriter, r *http.Request)
	UpdatePermissions(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.StaffService
}

func NewStaffHandler(staffService staff.StaffService) StaffHandler {
	return &staffHandlerImpl{staffService: staffService}
}

// ListStaff implements StaffHandler
func (h *staffHandlerImpl) ListStaff(w http.ResponseWriter, r *http.Request) {
	filter := staff.StaffFilter{
		Role:       optionalQuery(r, "role"),
		Status:     optionalQuery(r, "status"),
		Department: optionalQuery(r, "department"),
		Search:     optionalQuery(r, "search"),
		Page:       intQuery(r, "page", 1),
		Limit:      intQuery(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}

	result, err := h.staffService.ListStaff(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paged(w, result.Staff, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

// GetStaff implements StaffHandler
func (h *staffHandlerImpl) GetStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.GetStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateStaff implements StaffHandler
func (h *staffHandlerImpl) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req staff.CreateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.staffService.CreateStaff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff member created successfully", result)
}

// UpdateStaff implements StaffHandler
func (h *staffHandlerImpl) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.staffService.UpdateStaff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member updated successfully", result)
}

// DeleteStaff implements StaffHandler
func (h *staffHandlerImpl) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.staffService.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member deleted successfully", nil)
}

// UpdateStatus implements StaffHandler
func (h *staffHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.staffService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff status updated successfully", result)
}

// SetPIN implements StaffHandler
func (h *staffHandlerImpl) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req staff.SetPINRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.staffService.SetPIN(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "PIN updated successfully", nil)
}

// UploadAvatar implements StaffHandler
func (h *staffHandlerImpl) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := staff.UploadAvatarRequest{StaffID: chi.URLParam(r, "id")}
	file, fileHeader, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.staffService.UploadAvatar(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Avatar uploaded successfully", result)
}

// GetPermissions implements StaffHandler
func (h *staffHandlerImpl) GetPermissions(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.GetPermissions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdatePermissions implements StaffHandler
func (h *staffHandlerImpl) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdatePermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.staffService.UpdatePermissions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permissions updated successfully", result)
}
