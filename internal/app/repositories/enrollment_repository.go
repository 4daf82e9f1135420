package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// Constraint backing the one-open-enrollment-per-student invariant.
const enrollmentOpenConstraint = "uq_enrollments_open"

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a PENDING enrollment. Concurrent creates for the same
// student race into the uq_enrollments_open partial index; the loser gets
// ErrConflict instead of a second open enrollment. FOR SHARE locks on the
// live student and course rows order the insert against concurrent soft
// deletes of either parent, which update the parent row before probing
// for enrollments.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM users WHERE id = $1 AND deleted_at IS NULL FOR SHARE`,
		enrollment.StudentID).Scan(&locked)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error locking student: %w", err)
	}
	err = tx.QueryRow(ctx, `
		SELECT id FROM courses WHERE id = $1 AND deleted_at IS NULL FOR SHARE`,
		enrollment.CourseID).Scan(&locked)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error locking course: %w", err)
	}

	query := `
		INSERT INTO enrollments (student_id, course_id, status, enrollment_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.Status, enrollment.EnrollmentDate,
	).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, enrollmentOpenConstraint) {
			return apperrors.NewConflictError("student already has an open enrollment")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a live enrollment by ID.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, enrollment_date, cancel_reason,
		       created_at, updated_at, deleted_at
		FROM enrollments
		WHERE id = $1 AND deleted_at IS NULL
	`

	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrollmentDate, &e.CancelReason,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return &e, nil
}

// GetOpenByStudent retrieves the student's open (pending or active)
// enrollment, or ErrNotFound when none exists.
func (r *EnrollmentRepository) GetOpenByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, enrollment_date, cancel_reason,
		       created_at, updated_at, deleted_at
		FROM enrollments
		WHERE student_id = $1 AND status IN ('PENDING', 'ACTIVE') AND deleted_at IS NULL
	`

	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrollmentDate, &e.CancelReason,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving open enrollment: %w", err)
	}
	return &e, nil
}

// GetAllByStudent retrieves every live enrollment of the student, newest
// first.
func (r *EnrollmentRepository) GetAllByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, enrollment_date, cancel_reason,
		       created_at, updated_at, deleted_at
		FROM enrollments
		WHERE student_id = $1 AND deleted_at IS NULL
		ORDER BY enrollment_date DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrollmentDate, &e.CancelReason,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

// UpdateStatus moves the enrollment from one status to another. The current
// status rides in the WHERE clause so the transition and its precondition
// are a single atomic write: RowsAffected 0 on an existing row means the
// enrollment was not in the expected state.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, from, to models.EnrollmentStatus, cancelReason *string) error {
	query := `
		UPDATE enrollments
		SET status = $1, cancel_reason = COALESCE($2, cancel_reason), updated_at = NOW()
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, to, cancelReason, id, from)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing enrollment from a bad transition.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.NewInvalidTransitionError(
			fmt.Sprintf("enrollment is not %s", from))
	}
	return nil
}

// CancelFrom cancels an enrollment that is currently pending or active.
func (r *EnrollmentRepository) CancelFrom(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE enrollments
		SET status = 'CANCELLED', cancel_reason = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ('PENDING', 'ACTIVE') AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("error cancelling enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.NewInvalidTransitionError("enrollment is already cancelled")
	}
	return nil
}
