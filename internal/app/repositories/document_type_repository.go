package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// DocumentTypeRepository handles database operations for document types
type DocumentTypeRepository struct {
	db *pgxpool.Pool
}

// NewDocumentTypeRepository creates a new document type repository
func NewDocumentTypeRepository(db *pgxpool.Pool) *DocumentTypeRepository {
	return &DocumentTypeRepository{db: db}
}

// Create inserts a new document type.
func (r *DocumentTypeRepository) Create(ctx context.Context, dt *models.DocumentType) error {
	query := `
		INSERT INTO document_types (name, applies_to, required)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, dt.Name, dt.AppliesTo, dt.Required).
		Scan(&dt.ID, &dt.CreatedAt, &dt.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("document type with this name already exists")
		}
		return fmt.Errorf("error creating document type: %w", err)
	}
	return nil
}

// GetByID retrieves a live document type by ID.
func (r *DocumentTypeRepository) GetByID(ctx context.Context, id int64) (*models.DocumentType, error) {
	query := `
		SELECT id, name, applies_to, required, created_at, updated_at, deleted_at
		FROM document_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	var dt models.DocumentType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&dt.ID, &dt.Name, &dt.AppliesTo, &dt.Required,
		&dt.CreatedAt, &dt.UpdatedAt, &dt.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving document type: %w", err)
	}
	return &dt, nil
}

// GetAll retrieves all live document types.
func (r *DocumentTypeRepository) GetAll(ctx context.Context) ([]*models.DocumentType, error) {
	query := `
		SELECT id, name, applies_to, required, created_at, updated_at, deleted_at
		FROM document_types
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
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

// Update updates an existing document type.
func (r *DocumentTypeRepository) Update(ctx context.Context, dt *models.DocumentType) error {
	query := `
		UPDATE document_types SET name = $1, applies_to = $2, required = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, dt.Name, dt.AppliesTo, dt.Required, dt.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("document type with this name already exists")
		}
		return fmt.Errorf("error updating document type: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a document type deleted unless documents reference it.
func (r *DocumentTypeRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inUse bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM documents WHERE document_type_id = $1 AND deleted_at IS NULL)`,
		id).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("error checking documents: %w", err)
	}
	if inUse {
		return apperrors.NewRestrictedDeleteError("document type has documents and cannot be deleted")
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE document_types SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting document type: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return tx.Commit(ctx)
}
