package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

const documentColumns = `id, owner_id, document_type_id, artifact_ref, file_name, size, mime_type,
	status, reviewer_id, reviewed_at, notes, created_at, updated_at, deleted_at`

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.DocumentTypeID, &d.ArtifactRef, &d.FileName, &d.Size, &d.MimeType,
		&d.Status, &d.ReviewerID, &d.ReviewedAt, &d.Notes, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new PENDING document.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (owner_id, document_type_id, artifact_ref, file_name, size, mime_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		doc.OwnerID, doc.DocumentTypeID, doc.ArtifactRef, doc.FileName, doc.Size, doc.MimeType, doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error creating document: %w", err)
	}
	return nil
}

// GetByID retrieves a live document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}
	return doc, nil
}

// GetByOwner retrieves the owner's live documents, newest first.
func (r *DocumentRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetPending retrieves all live documents awaiting review, oldest first.
func (r *DocumentRepository) GetPending(ctx context.Context) ([]*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE status = 'PENDING' AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Review writes the terminal status with reviewer attribution in a single
// guarded UPDATE. The status precondition in the WHERE clause makes a
// concurrent second review lose with RowsAffected 0, keeping the first
// reviewer's attribution intact.
func (r *DocumentRepository) Review(ctx context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error {
	query := `
		UPDATE documents
		SET status = $1, reviewer_id = $2, reviewed_at = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'PENDING' AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, status, reviewerID, reviewedAt, notes, id)
	if err != nil {
		return fmt.Errorf("error reviewing document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.NewInvalidTransitionError("document has already been reviewed")
	}
	return nil
}

// FindRequiredOutstanding returns the required document types for the role
// that have no approved live document from the user.
func (r *DocumentRepository) FindRequiredOutstanding(ctx context.Context, userID int64, role models.RoleType) ([]*models.DocumentType, error) {
	query := `
		SELECT dt.id, dt.name, dt.applies_to, dt.required, dt.created_at, dt.updated_at, dt.deleted_at
		FROM document_types dt
		WHERE dt.required = TRUE
		  AND dt.deleted_at IS NULL
		  AND (dt.applies_to = $2 OR dt.applies_to = 'BOTH')
		  AND NOT EXISTS (
			SELECT 1 FROM documents d
			WHERE d.document_type_id = dt.id
			  AND d.owner_id = $1
			  AND d.status = 'APPROVED'
			  AND d.deleted_at IS NULL
		  )
		ORDER BY dt.name
	`

	rows, err := r.db.Query(ctx, query, userID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.DocumentType
	for rows.Next() {
		var dt models.DocumentType
		if err := rows.Scan(
			&dt.ID, &dt.Name, &dt.AppliesTo, &dt.Required,
			&dt.CreatedAt, &dt.UpdatedAt, &dt.DeletedAt,
		); err != nil {
			return nil, err
		}
		types = append(types, &dt)
	}
	return types, rows.Err()
}
