package http

import (
	"log/slog"
	"net/http"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListByStaff(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Expiring(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

// Upload reads a multipart form: file, document_type, and optional name and expiry_date.
func (h *documentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := document.UploadDocumentRequest{
		StaffID:      chi.URLParam(r, "id"),
		DocumentType: r.FormValue("document_type"),
		Name:         r.FormValue("name"),
	}
	if expiry := r.FormValue("expiry_date"); expiry != "" {
		req.ExpiryDate = &expiry
	}

	file, fileHeader, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.documentService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Document uploaded successfully", result)
}

func (h *documentHandlerImpl) ListByStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.ListByStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.Get(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *documentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.Delete(r.Context(), chi.URLParam(r, "docID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Document deleted successfully", nil)
}

func (h *documentHandlerImpl) Expiring(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.Expiring(r.Context(), intQuery(r, "days", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
