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

// Constraint backing the one-contract-per-term invariant.
const contractTermConstraint = "uq_contracts_term"

const contractColumns = `id, owner_id, template_id, artifact_ref, semester, year, accepted_at,
	created_at, updated_at, deleted_at`

// ContractRepository handles database operations for contracts
type ContractRepository struct {
	db *pgxpool.Pool
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{db: db}
}

func scanContract(row interface{ Scan(...any) error }) (*models.Contract, error) {
	var c models.Contract
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.TemplateID, &c.ArtifactRef, &c.Semester, &c.Year, &c.AcceptedAt,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new awaiting-signature contract. A concurrent issue for
// the same (owner, semester, year) loses on uq_contracts_term and gets
// ErrConflict.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (owner_id, template_id, artifact_ref, semester, year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		contract.OwnerID, contract.TemplateID, contract.ArtifactRef, contract.Semester, contract.Year,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, contractTermConstraint) {
			return apperrors.NewConflictError("contract already exists for this user and term")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error creating contract: %w", err)
	}
	return nil
}

// GetByID retrieves a live contract by ID.
func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND deleted_at IS NULL`

	contract, err := scanContract(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving contract: %w", err)
	}
	return contract, nil
}

// GetByOwner retrieves the owner's live contracts, newest term first.
func (r *ContractRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY year DESC, semester DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

// Accept writes accepted_at once. The accepted_at IS NULL guard in the
// WHERE clause keeps acceptance one-way: a second call changes nothing and
// surfaces as InvalidTransition.
func (r *ContractRepository) Accept(ctx context.Context, id int64, acceptedAt time.Time) error {
	query := `
		UPDATE contracts
		SET accepted_at = $1, updated_at = NOW()
		WHERE id = $2 AND accepted_at IS NULL AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, acceptedAt, id)
	if err != nil {
		return fmt.Errorf("error accepting contract: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.NewInvalidTransitionError("contract has already been accepted")
	}
	return nil
}

// UpdateArtifactRef overwrites only the artifact reference. Administrative
// regeneration path; accepted_at is never touched here.
func (r *ContractRepository) UpdateArtifactRef(ctx context.Context, id int64, artifactRef string) error {
	query := `
		UPDATE contracts SET artifact_ref = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, artifactRef, id)
	if err != nil {
		return fmt.Errorf("error updating contract artifact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindOwnersNeedingRenewal returns IDs of users who hold an ACTIVE
// enrollment but no live contract for the given term. Feeds the scheduled
// renewal job.
func (r *ContractRepository) FindOwnersNeedingRenewal(ctx context.Context, semester, year int) ([]int64, error) {
	query := `
		SELECT DISTINCT e.student_id
		FROM enrollments e
		WHERE e.status = 'ACTIVE'
		  AND e.deleted_at IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM contracts c
			WHERE c.owner_id = e.student_id
			  AND c.semester = $1 AND c.year = $2
			  AND c.deleted_at IS NULL
		  )
		ORDER BY e.student_id
	`

	rows, err := r.db.Query(ctx, query, semester, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
