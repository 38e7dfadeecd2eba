package document

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/validator"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/file"
)

const (
	urlExpiry           = 15 * time.Minute
	defaultExpiringDays = 30
)

// StaffLookup resolves a staff member within a business.
type StaffLookup interface {
	GetByID(ctx context.Context, id string, businessID string) (staff.Staff, error)
}

type DocumentServiceImpl struct {
	documentRepo document.DocumentRepository
	staffRepo    StaffLookup
	fileService  file.FileService
	now          func() time.Time
}

func NewDocumentService(documentRepo document.DocumentRepository, staffRepo StaffLookup, fileService file.FileService) document.DocumentService {
	return &DocumentServiceImpl{
		documentRepo: documentRepo,
		staffRepo:    staffRepo,
		fileService:  fileService,
		now:          time.Now,
	}
}

func (s *DocumentServiceImpl) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Upload implements document.DocumentService.
func (s *DocumentServiceImpl) Upload(ctx context.Context, req document.UploadDocumentRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	if _, err := s.staffRepo.GetByID(ctx, req.StaffID, claims.BusinessID); err != nil {
		return document.DocumentResponse{}, err
	}

	path, contentType, err := s.fileService.UploadDocument(ctx, req.StaffID, req.File, req.FileHeader.Filename, req.FileHeader.Size, req.DocumentType)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrInvalidFileType):
			return document.DocumentResponse{}, document.ErrUnsupportedFileType
		case errors.Is(err, file.ErrFileTooLarge):
			return document.DocumentResponse{}, document.ErrFileTooLarge
		}
		return document.DocumentResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(req.FileHeader.Filename), filepath.Ext(req.FileHeader.Filename))
	}

	doc := document.StaffDocument{
		BusinessID:   claims.BusinessID,
		StaffID:      req.StaffID,
		DocumentType: document.DocumentType(req.DocumentType),
		Name:         name,
		FilePath:     path,
		FileSize:     req.FileHeader.Size,
		MimeType:     contentType,
	}
	if req.ExpiryDate != nil {
		expiry, _ := validator.IsValidDate(*req.ExpiryDate)
		doc.ExpiryDate = &expiry
	}
	if claims.StaffID != "" {
		doc.UploadedBy = &claims.StaffID
	}

	created, err := s.documentRepo.Create(ctx, doc)
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, path); delErr != nil {
			slog.Error("failed to remove orphaned document file", "path", path, "error", delErr)
		}
		return document.DocumentResponse{}, err
	}
	return s.mapDocumentToResponse(ctx, created), nil
}

// ListByStaff implements document.DocumentService.
func (s *DocumentServiceImpl) ListByStaff(ctx context.Context, staffID string) ([]document.DocumentResponse, error) {
	if !validator.IsValidUUID(staffID) {
		return nil, validator.ValidationErrors{{Field: "staff_id", Message: "must be a valid UUID"}}
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.Can(staff.PermissionDocumentsManage) && staffID != claims.StaffID {
		return nil, document.ErrUnauthorized
	}

	if _, err := s.staffRepo.GetByID(ctx, staffID, claims.BusinessID); err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.ListByStaff(ctx, staffID, claims.BusinessID)
	if err != nil {
		return nil, err
	}
	return s.mapDocuments(ctx, docs), nil
}

// Get implements document.DocumentService.
func (s *DocumentServiceImpl) Get(ctx context.Context, id string) (document.DocumentResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	doc, err := s.documentRepo.GetByID(ctx, id, claims.BusinessID)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if !claims.Can(staff.PermissionDocumentsManage) && doc.StaffID != claims.StaffID {
		return document.DocumentResponse{}, document.ErrUnauthorized
	}
	return s.mapDocumentToResponse(ctx, doc), nil
}

// Delete implements document.DocumentService.
func (s *DocumentServiceImpl) Delete(ctx context.Context, id string) error {
	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return err
	}

	doc, err := s.documentRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id, businessID); err != nil {
		return err
	}

	if err := s.fileService.DeleteFile(ctx, doc.FilePath); err != nil {
		slog.Warn("failed to delete document file", "document_id", id, "path", doc.FilePath, "error", err)
	}
	return nil
}

// Expiring implements document.DocumentService.
func (s *DocumentServiceImpl) Expiring(ctx context.Context, days int) ([]document.DocumentResponse, error) {
	if days == 0 {
		days = defaultExpiringDays
	}
	if days < 0 || days > document.MaxExpiringDays {
		return nil, validator.ValidationErrors{{Field: "days", Message: "days must be between 1 and 365"}}
	}

	businessID, err := jwt.BusinessIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	docs, err := s.documentRepo.ListExpiring(ctx, businessID, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return s.mapDocuments(ctx, docs), nil
}

func (s *DocumentServiceImpl) mapDocuments(ctx context.Context, docs []document.StaffDocument) []document.DocumentResponse {
	out := make([]document.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.mapDocumentToResponse(ctx, d))
	}
	return out
}

func (s *DocumentServiceImpl) mapDocumentToResponse(ctx context.Context, d document.StaffDocument) document.DocumentResponse {
	url, err := s.fileService.GetFileURL(ctx, d.FilePath, urlExpiry)
	if err != nil {
		slog.Warn("failed to sign document url", "document_id", d.ID, "error", err)
	}

	resp := document.DocumentResponse{
		ID:           d.ID,
		StaffID:      d.StaffID,
		StaffName:    d.StaffName,
		DocumentType: string(d.DocumentType),
		Name:         d.Name,
		FileSize:     d.FileSize,
		MimeType:     d.MimeType,
		URL:          url,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
	if d.ExpiryDate != nil {
		expiry := d.ExpiryDate.Format(validator.DateLayout)
		days := int(d.ExpiryDate.Sub(s.today()).Hours() / 24)
		resp.ExpiryDate = &expiry
		resp.DaysToExpiry = &days
	}
	return resp
}
