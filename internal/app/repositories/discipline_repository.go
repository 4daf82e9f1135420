package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// DisciplineRepository handles database operations for disciplines
type DisciplineRepository struct {
	db *pgxpool.Pool
}

// NewDisciplineRepository creates a new discipline repository
func NewDisciplineRepository(db *pgxpool.Pool) *DisciplineRepository {
	return &DisciplineRepository{db: db}
}

// Create inserts a new discipline.
func (r *DisciplineRepository) Create(ctx context.Context, discipline *models.Discipline) error {
	query := `
		INSERT INTO disciplines (name, workload)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, discipline.Name, discipline.Workload).
		Scan(&discipline.ID, &discipline.CreatedAt, &discipline.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating discipline: %w", err)
	}
	return nil
}

// GetByID retrieves a live discipline by ID.
func (r *DisciplineRepository) GetByID(ctx context.Context, id int64) (*models.Discipline, error) {
	query := `
		SELECT id, name, workload, created_at, updated_at, deleted_at
		FROM disciplines
		WHERE id = $1 AND deleted_at IS NULL
	`

	var d models.Discipline
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Workload, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving discipline: %w", err)
	}
	return &d, nil
}

// GetAll retrieves all live disciplines.
func (r *DisciplineRepository) GetAll(ctx context.Context) ([]*models.Discipline, error) {
	query := `
		SELECT id, name, workload, created_at, updated_at, deleted_at
		FROM disciplines
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disciplines []*models.Discipline
	for rows.Next() {
		var d models.Discipline
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Workload, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
		); err != nil {
			return nil, err
		}
		disciplines = append(disciplines, &d)
	}
	return disciplines, rows.Err()
}

// Update updates an existing discipline.
func (r *DisciplineRepository) Update(ctx context.Context, discipline *models.Discipline) error {
	query := `
		UPDATE disciplines SET name = $1, workload = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, discipline.Name, discipline.Workload, discipline.ID)
	if err != nil {
		return fmt.Errorf("error updating discipline: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a discipline deleted unless a course grid still uses it.
func (r *DisciplineRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inUse bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM course_disciplines WHERE discipline_id = $1)`,
		id).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("error checking course grid: %w", err)
	}
	if inUse {
		return apperrors.NewRestrictedDeleteError("discipline is part of a course grid and cannot be deleted")
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE disciplines SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting discipline: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return tx.Commit(ctx)
}
