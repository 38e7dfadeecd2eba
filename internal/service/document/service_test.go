package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/service/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "7b0c6f4e-3f4a-4d8e-9a51-1d2f3c4b5a60"

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

type mockDocumentRepo struct {
	docs map[string]document.StaffDocument
	fail error
}

func (m *mockDocumentRepo) Create(ctx context.Context, d document.StaffDocument) (document.StaffDocument, error) {
	if m.fail != nil {
		return document.StaffDocument{}, m.fail
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	m.docs[d.ID] = d
	return d, nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id, businessID string) (document.StaffDocument, error) {
	d, ok := m.docs[id]
	if !ok {
		return document.StaffDocument{}, document.ErrDocumentNotFound
	}
	return d, nil
}

func (m *mockDocumentRepo) ListByStaff(ctx context.Context, staffID, businessID string) ([]document.StaffDocument, error) {
	var out []document.StaffDocument
	for _, d := range m.docs {
		if d.StaffID == staffID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, id, businessID string) error {
	if _, ok := m.docs[id]; !ok {
		return document.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockDocumentRepo) ListExpiring(ctx context.Context, businessID string, from, until time.Time) ([]document.StaffDocument, error) {
	var out []document.StaffDocument
	for _, d := range m.docs {
		if d.ExpiryDate != nil && !d.ExpiryDate.Before(from) && !d.ExpiryDate.After(until) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

type mockFileService struct {
	deleted []string
}

func (f *mockFileService) UploadAvatar(ctx context.Context, staffID string, r io.Reader, filename string) (string, error) {
	return "", nil
}

func (f *mockFileService) UploadDocument(ctx context.Context, staffID string, r io.Reader, filename string, size int64, documentType string) (string, string, error) {
	switch filepath.Ext(filename) {
	case ".exe":
		return "", "", fmt.Errorf("%w: only pdf, jpg, png, doc, docx allowed", file.ErrInvalidFileType)
	case ".pdf":
		return "documents/" + staffID + "/" + filename, "application/pdf", nil
	}
	return "documents/" + staffID + "/" + filename, "image/png", nil
}

func (f *mockFileService) DeleteFile(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *mockFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

type mockStaff struct{}

func (mockStaff) GetByID(ctx context.Context, id, businessID string) (staff.Staff, error) {
	return staff.Staff{ID: id, BusinessID: businessID}, nil
}

func newTestService() (*DocumentServiceImpl, *mockDocumentRepo, *mockFileService) {
	repo := &mockDocumentRepo{docs: map[string]document.StaffDocument{}}
	files := &mockFileService{}
	svc := NewDocumentService(repo, mockStaff{}, files).(*DocumentServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 16, 45, 0, 0, time.UTC) }
	return svc, repo, files
}

func contextFor(staffID string, role staff.Role) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		BusinessID: testBusinessID,
		StaffID:    staffID,
		Role:       role,
	})
}

func uploadRequest(staffID, filename string, expiry *string) document.UploadDocumentRequest {
	content := []byte("%PDF-1.4 test")
	return document.UploadDocumentRequest{
		StaffID:      staffID,
		DocumentType: string(document.TypeHealthCertificate),
		ExpiryDate:   expiry,
		File:         memFile{bytes.NewReader(content)},
		FileHeader:   &multipart.FileHeader{Filename: filename, Size: int64(len(content))},
	}
}

func TestDocumentService_Upload(t *testing.T) {
	svc, _, files := newTestService()
	ctx := contextFor(uuid.NewString(), staff.RoleManager)
	staffID := uuid.NewString()
	expiry := "2025-04-13"

	doc, err := svc.Upload(ctx, uploadRequest(staffID, "food-handler.pdf", &expiry))
	require.NoError(t, err)
	assert.Equal(t, "food-handler", doc.Name)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, "http://files.test/documents/"+staffID+"/food-handler.pdf", doc.URL)
	require.NotNil(t, doc.DaysToExpiry)
	assert.Equal(t, 30, *doc.DaysToExpiry)

	_, err = svc.Upload(ctx, uploadRequest(staffID, "payload.exe", nil))
	assert.ErrorIs(t, err, document.ErrUnsupportedFileType)
	assert.Empty(t, files.deleted)
}

func TestDocumentService_Upload_RemovesFileOnFailure(t *testing.T) {
	svc, repo, files := newTestService()
	staffID := uuid.NewString()
	repo.fail = staff.ErrStaffNotFound

	_, err := svc.Upload(contextFor(uuid.NewString(), staff.RoleOwner), uploadRequest(staffID, "contract.pdf", nil))
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
	assert.Equal(t, []string{"documents/" + staffID + "/contract.pdf"}, files.deleted)
}

func TestDocumentService_AccessAndDelete(t *testing.T) {
	svc, repo, files := newTestService()
	manager := contextFor(uuid.NewString(), staff.RoleManager)
	owner := uuid.NewString()

	doc, err := svc.Upload(manager, uploadRequest(owner, "id.png", nil))
	require.NoError(t, err)

	_, err = svc.Get(contextFor(owner, staff.RoleWaiter), doc.ID)
	assert.NoError(t, err)

	_, err = svc.Get(contextFor(uuid.NewString(), staff.RoleWaiter), doc.ID)
	assert.ErrorIs(t, err, document.ErrUnauthorized)

	_, err = svc.ListByStaff(contextFor(uuid.NewString(), staff.RoleKitchen), owner)
	assert.ErrorIs(t, err, document.ErrUnauthorized)

	list, err := svc.ListByStaff(manager, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(manager, doc.ID))
	assert.Empty(t, repo.docs)
	assert.Len(t, files.deleted, 1)
	assert.ErrorIs(t, svc.Delete(manager, doc.ID), document.ErrDocumentNotFound)
}

func TestDocumentService_Expiring(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := contextFor(uuid.NewString(), staff.RoleManager)
	staffID := uuid.NewString()

	for _, expiry := range []string{"2025-03-10", "2025-03-20", "2025-04-10", "2025-06-01"} {
		e := expiry
		_, err := svc.Upload(ctx, uploadRequest(staffID, "cert-"+e+".pdf", &e))
		require.NoError(t, err)
	}

	docs, err := svc.Expiring(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2025-03-20", *docs[0].ExpiryDate)
	assert.Equal(t, 6, *docs[0].DaysToExpiry)

	_, err = svc.Expiring(ctx, 400)
	assert.Error(t, err)
}
