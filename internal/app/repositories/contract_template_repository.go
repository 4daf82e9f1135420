package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// ContractTemplateRepository handles database operations for contract templates
type ContractTemplateRepository struct {
	db *pgxpool.Pool
}

// NewContractTemplateRepository creates a new contract template repository
func NewContractTemplateRepository(db *pgxpool.Pool) *ContractTemplateRepository {
	return &ContractTemplateRepository{db: db}
}

// Create inserts a new template.
func (r *ContractTemplateRepository) Create(ctx context.Context, tpl *models.ContractTemplate) error {
	query := `
		INSERT INTO contract_templates (name, body, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, tpl.Name, tpl.Body, tpl.Active).
		Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating contract template: %w", err)
	}
	return nil
}

// GetByID retrieves a live template by ID.
func (r *ContractTemplateRepository) GetByID(ctx context.Context, id int64) (*models.ContractTemplate, error) {
	query := `
		SELECT id, name, body, active, created_at, updated_at, deleted_at
		FROM contract_templates
		WHERE id = $1 AND deleted_at IS NULL
	`

	var tpl models.ContractTemplate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tpl.ID, &tpl.Name, &tpl.Body, &tpl.Active,
		&tpl.CreatedAt, &tpl.UpdatedAt, &tpl.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving contract template: %w", err)
	}
	return &tpl, nil
}

// GetActive retrieves the newest active template.
func (r *ContractTemplateRepository) GetActive(ctx context.Context) (*models.ContractTemplate, error) {
	query := `
		SELECT id, name, body, active, created_at, updated_at, deleted_at
		FROM contract_templates
		WHERE active = TRUE AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var tpl models.ContractTemplate
	err := r.db.QueryRow(ctx, query).Scan(
		&tpl.ID, &tpl.Name, &tpl.Body, &tpl.Active,
		&tpl.CreatedAt, &tpl.UpdatedAt, &tpl.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("no active contract template")
		}
		return nil, fmt.Errorf("error retrieving active template: %w", err)
	}
	return &tpl, nil
}

// GetAll retrieves all live templates.
func (r *ContractTemplateRepository) GetAll(ctx context.Context) ([]*models.ContractTemplate, error) {
	query := `
		SELECT id, name, body, active, created_at, updated_at, deleted_at
		FROM contract_templates
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.ContractTemplate
	for rows.Next() {
		var tpl models.ContractTemplate
		if err := rows.Scan(
			&tpl.ID, &tpl.Name, &tpl.Body, &tpl.Active,
			&tpl.CreatedAt, &tpl.UpdatedAt, &tpl.DeletedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, &tpl)
	}
	return templates, rows.Err()
}

// Update updates a template's name, body and active flag. Contracts already
// issued keep their rendered artifacts; template edits only affect future
// issues.
func (r *ContractTemplateRepository) Update(ctx context.Context, tpl *models.ContractTemplate) error {
	query := `
		UPDATE contract_templates SET name = $1, body = $2, active = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, tpl.Name, tpl.Body, tpl.Active, tpl.ID)
	if err != nil {
		return fmt.Errorf("error updating contract template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
