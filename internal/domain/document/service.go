package document

import "context"

type DocumentService interface {
	Upload(ctx context.Context, req UploadDocumentRequest) (DocumentResponse, error)
	ListByStaff(ctx context.Context, staffID string) ([]DocumentResponse, error)
	Get(ctx context.Context, id string) (DocumentResponse, error)
	Delete(ctx context.Context, id string) error
	Expiring(ctx context.Context, days int) ([]DocumentResponse, error)
}
