package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// Constraint backing the one-grade-per-(evaluation, student) invariant.
const gradeEntryConstraint = "uq_grades_entry"

// EvaluationRepository handles database operations for evaluations and
// their grades. Grades are owned by the evaluation: deleting an evaluation
// soft-deletes its grades in the same transaction.
type EvaluationRepository struct {
	db *pgxpool.Pool
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// CreateEvaluation inserts a new evaluation.
func (r *EvaluationRepository) CreateEvaluation(ctx context.Context, eval *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (class_id, teacher_id, discipline_id, name, date, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		eval.ClassID, eval.TeacherID, eval.DisciplineID, eval.Name, eval.Date, eval.Kind,
	).Scan(&eval.ID, &eval.CreatedAt, &eval.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error creating evaluation: %w", err)
	}
	return nil
}

// GetEvaluationByID retrieves a live evaluation by ID.
func (r *EvaluationRepository) GetEvaluationByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	query := `
		SELECT id, class_id, teacher_id, discipline_id, name, date, kind,
		       created_at, updated_at, deleted_at
		FROM evaluations
		WHERE id = $1 AND deleted_at IS NULL
	`

	var e models.Evaluation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ClassID, &e.TeacherID, &e.DisciplineID, &e.Name, &e.Date, &e.Kind,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving evaluation: %w", err)
	}
	return &e, nil
}

// GetEvaluationsByClass retrieves the live evaluations of a class.
func (r *EvaluationRepository) GetEvaluationsByClass(ctx context.Context, classID int64) ([]*models.Evaluation, error) {
	query := `
		SELECT id, class_id, teacher_id, discipline_id, name, date, kind,
		       created_at, updated_at, deleted_at
		FROM evaluations
		WHERE class_id = $1 AND deleted_at IS NULL
		ORDER BY date, name
	`

	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []*models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(
			&e.ID, &e.ClassID, &e.TeacherID, &e.DisciplineID, &e.Name, &e.Date, &e.Kind,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, &e)
	}
	return evaluations, rows.Err()
}

// SoftDeleteEvaluation marks an evaluation deleted and cascades the
// soft-delete to its live grades inside one transaction.
func (r *EvaluationRepository) SoftDeleteEvaluation(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE evaluations SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting evaluation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE grades SET deleted_at = NOW(), updated_at = NOW()
		WHERE evaluation_id = $1 AND deleted_at IS NULL`, id); err != nil {
		return fmt.Errorf("error cascading delete to grades: %w", err)
	}

	return tx.Commit(ctx)
}

// CreateGrade inserts a new grade. A duplicate live entry for the same
// (evaluation, student) loses on uq_grades_entry and gets ErrConflict.
func (r *EvaluationRepository) CreateGrade(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (evaluation_id, student_id, numeric_value, concept)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		grade.EvaluationID, grade.StudentID, grade.NumericValue, grade.Concept,
	).Scan(&grade.ID, &grade.CreatedAt, &grade.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, gradeEntryConstraint) {
			return apperrors.NewConflictError("grade already recorded for this student and evaluation")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("grade value violates constraints")
		}
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

// GetGradeByID retrieves a live grade by ID.
func (r *EvaluationRepository) GetGradeByID(ctx context.Context, id int64) (*models.Grade, error) {
	query := `
		SELECT id, evaluation_id, student_id, numeric_value, concept,
		       created_at, updated_at, deleted_at
		FROM grades
		WHERE id = $1 AND deleted_at IS NULL
	`

	var g models.Grade
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.EvaluationID, &g.StudentID, &g.NumericValue, &g.Concept,
		&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}
	return &g, nil
}

// GetGradesByEvaluation retrieves the live grades of an evaluation.
func (r *EvaluationRepository) GetGradesByEvaluation(ctx context.Context, evaluationID int64) ([]*models.Grade, error) {
	query := `
		SELECT id, evaluation_id, student_id, numeric_value, concept,
		       created_at, updated_at, deleted_at
		FROM grades
		WHERE evaluation_id = $1 AND deleted_at IS NULL
		ORDER BY student_id
	`

	rows, err := r.db.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(
			&g.ID, &g.EvaluationID, &g.StudentID, &g.NumericValue, &g.Concept,
			&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
		); err != nil {
			return nil, err
		}
		grades = append(grades, &g)
	}
	return grades, rows.Err()
}

// GetGradesByStudent retrieves the student's live grades.
func (r *EvaluationRepository) GetGradesByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	query := `
		SELECT id, evaluation_id, student_id, numeric_value, concept,
		       created_at, updated_at, deleted_at
		FROM grades
		WHERE student_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(
			&g.ID, &g.EvaluationID, &g.StudentID, &g.NumericValue, &g.Concept,
			&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
		); err != nil {
			return nil, err
		}
		grades = append(grades, &g)
	}
	return grades, rows.Err()
}

// UpdateGrade replaces a grade's values. Amendments are unrestricted.
func (r *EvaluationRepository) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	query := `
		UPDATE grades SET numeric_value = $1, concept = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, grade.NumericValue, grade.Concept, grade.ID)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("grade value violates constraints")
		}
		return fmt.Errorf("error updating grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
