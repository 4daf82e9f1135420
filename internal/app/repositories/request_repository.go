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

const requestColumns = `id, student_id, request_type_id, description, status,
	reviewer_id, reviewed_at, notes, created_at, updated_at, deleted_at`

// RequestRepository handles database operations for requests and their
// catalog of request types.
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID, &req.StudentID, &req.RequestTypeID, &req.Description, &req.Status,
		&req.ReviewerID, &req.ReviewedAt, &req.Notes, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new PENDING request.
func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (student_id, request_type_id, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		req.StudentID, req.RequestTypeID, req.Description, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error creating request: %w", err)
	}
	return nil
}

// GetByID retrieves a live request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 AND deleted_at IS NULL`

	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}
	return req, nil
}

// GetByStudent retrieves the student's live requests, newest first.
func (r *RequestRepository) GetByStudent(ctx context.Context, studentID int64) ([]*models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE student_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// GetPending retrieves all live requests awaiting review, oldest first.
func (r *RequestRepository) GetPending(ctx context.Context) ([]*models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE status = 'PENDING' AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Review writes the terminal status with reviewer attribution in a single
// guarded UPDATE, same shape as document review.
func (r *RequestRepository) Review(ctx context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error {
	query := `
		UPDATE requests
		SET status = $1, reviewer_id = $2, reviewed_at = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'PENDING' AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, status, reviewerID, reviewedAt, notes, id)
	if err != nil {
		return fmt.Errorf("error reviewing request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.NewInvalidTransitionError("request has already been reviewed")
	}
	return nil
}

// CreateType inserts a new request type.
func (r *RequestRepository) CreateType(ctx context.Context, rt *models.RequestType) error {
	query := `
		INSERT INTO request_types (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, rt.Name).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("request type with this name already exists")
		}
		return fmt.Errorf("error creating request type: %w", err)
	}
	return nil
}

// GetTypeByID retrieves a live request type by ID.
func (r *RequestRepository) GetTypeByID(ctx context.Context, id int64) (*models.RequestType, error) {
	query := `
		SELECT id, name, created_at, updated_at, deleted_at
		FROM request_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	var rt models.RequestType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rt.ID, &rt.Name, &rt.CreatedAt, &rt.UpdatedAt, &rt.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving request type: %w", err)
	}
	return &rt, nil
}

// GetAllTypes retrieves all live request types.
func (r *RequestRepository) GetAllTypes(ctx context.Context) ([]*models.RequestType, error) {
	query := `
		SELECT id, name, created_at, updated_at, deleted_at
		FROM request_types
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.RequestType
	for rows.Next() {
		var rt models.RequestType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.CreatedAt, &rt.UpdatedAt, &rt.DeletedAt); err != nil {
			return nil, err
		}
		types = append(types, &rt)
	}
	return types, rows.Err()
}
