package document

import (
	"mime/multipart"
	"strings"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
)

const MaxExpiringDays = 365

type UploadDocumentRequest struct {
	StaffID      string
	DocumentType string
	Name         string
	ExpiryDate   *string
	File         multipart.File
	FileHeader   *multipart.FileHeader
}

func (r *UploadDocumentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "must be a valid UUID"})
	}
	if !validator.IsInSlice(r.DocumentType, DocumentTypes) {
		errs = append(errs, validator.ValidationError{Field: "document_type", Message: "document_type must be one of: " + strings.Join(DocumentTypes, ", ")})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must be at most 255 characters"})
	}
	if r.ExpiryDate != nil {
		if _, ok := validator.IsValidDate(*r.ExpiryDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "expiry_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DocumentResponse struct {
	ID           string  `json:"id"`
	StaffID      string  `json:"staff_id"`
	StaffName    string  `json:"staff_name,omitempty"`
	DocumentType string  `json:"document_type"`
	Name         string  `json:"name"`
	FileSize     int64   `json:"file_size"`
	MimeType     string  `json:"mime_type"`
	URL          string  `json:"url"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	DaysToExpiry *int    `json:"days_to_expiry,omitempty"`
	UploadedBy   *string `json:"uploaded_by,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
