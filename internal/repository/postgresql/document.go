package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/document"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `
	d.id, d.business_id, d.staff_id, d.document_type, d.name, d.file_path, d.file_size,
	d.mime_type, d.expiry_date, d.uploaded_by, d.created_at,
	s.first_name || ' ' || s.last_name`

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

func scanDocument(row pgx.Row) (document.StaffDocument, error) {
	var d document.StaffDocument
	err := row.Scan(
		&d.ID, &d.BusinessID, &d.StaffID, &d.DocumentType, &d.Name, &d.FilePath, &d.FileSize,
		&d.MimeType, &d.ExpiryDate, &d.UploadedBy, &d.CreatedAt,
		&d.StaffName,
	)
	return d, err
}

func collectDocuments(rows pgx.Rows) ([]document.StaffDocument, error) {
	defer rows.Close()
	docs := []document.StaffDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, d document.StaffDocument) (document.StaffDocument, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH d AS (
			INSERT INTO staff_documents (
				business_id, staff_id, document_type, name, file_path, file_size,
				mime_type, expiry_date, uploaded_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT` + documentColumns + `
		FROM d JOIN staff s ON s.id = d.staff_id`

	created, err := scanDocument(q.QueryRow(ctx, query,
		d.BusinessID, d.StaffID, d.DocumentType, d.Name, d.FilePath, d.FileSize,
		d.MimeType, d.ExpiryDate, d.UploadedBy,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return document.StaffDocument{}, staff.ErrStaffNotFound
		}
		return document.StaffDocument{}, fmt.Errorf("failed to create document: %w", err)
	}
	return created, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string, businessID string) (document.StaffDocument, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDocument(q.QueryRow(ctx, `SELECT`+documentColumns+`
		FROM staff_documents d JOIN staff s ON s.id = d.staff_id
		WHERE d.id = $1 AND d.business_id = $2`, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.StaffDocument{}, document.ErrDocumentNotFound
		}
		return document.StaffDocument{}, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// ListByStaff implements document.DocumentRepository.
func (r *documentRepositoryImpl) ListByStaff(ctx context.Context, staffID string, businessID string) ([]document.StaffDocument, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+documentColumns+`
		FROM staff_documents d JOIN staff s ON s.id = d.staff_id
		WHERE d.staff_id = $1 AND d.business_id = $2
		ORDER BY d.created_at DESC`, staffID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return collectDocuments(rows)
}

// Delete implements document.DocumentRepository.
func (r *documentRepositoryImpl) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff_documents WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

// ListExpiring implements document.DocumentRepository.
func (r *documentRepositoryImpl) ListExpiring(ctx context.Context, businessID string, from, until time.Time) ([]document.StaffDocument, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+documentColumns+`
		FROM staff_documents d JOIN staff s ON s.id = d.staff_id
		WHERE d.business_id = $1 AND d.expiry_date BETWEEN $2 AND $3
			AND s.deleted_at IS NULL
		ORDER BY d.expiry_date, s.first_name`, businessID, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring documents: %w", err)
	}
	return collectDocuments(rows)
}
