package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// ClassRepository handles database operations for classes, their teacher
// assignments and their student rosters.
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (course_id, name, semester, year)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, class.CourseID, class.Name, class.Semester, class.Year).
		Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("course not found")
		}
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// GetByID retrieves a live class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query := `
		SELECT id, course_id, name, semester, year, created_at, updated_at, deleted_at
		FROM classes
		WHERE id = $1 AND deleted_at IS NULL
	`

	var class models.Class
	err := r.db.QueryRow(ctx, query, id).Scan(
		&class.ID, &class.CourseID, &class.Name, &class.Semester, &class.Year,
		&class.CreatedAt, &class.UpdatedAt, &class.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return &class, nil
}

// GetAll retrieves all live classes.
func (r *ClassRepository) GetAll(ctx context.Context) ([]*models.Class, error) {
	query := `
		SELECT id, course_id, name, semester, year, created_at, updated_at, deleted_at
		FROM classes
		WHERE deleted_at IS NULL
		ORDER BY year DESC, semester DESC, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		var class models.Class
		if err := rows.Scan(
			&class.ID, &class.CourseID, &class.Name, &class.Semester, &class.Year,
			&class.CreatedAt, &class.UpdatedAt, &class.DeletedAt,
		); err != nil {
			return nil, err
		}
		classes = append(classes, &class)
	}
	return classes, rows.Err()
}

// GetByTeacher retrieves the live classes a teacher is assigned to.
func (r *ClassRepository) GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error) {
	query := `
		SELECT DISTINCT c.id, c.course_id, c.name, c.semester, c.year, c.created_at, c.updated_at, c.deleted_at
		FROM classes c
		JOIN class_teachers ct ON ct.class_id = c.id
		WHERE ct.teacher_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.year DESC, c.semester DESC, c.name
	`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		var class models.Class
		if err := rows.Scan(
			&class.ID, &class.CourseID, &class.Name, &class.Semester, &class.Year,
			&class.CreatedAt, &class.UpdatedAt, &class.DeletedAt,
		); err != nil {
			return nil, err
		}
		classes = append(classes, &class)
	}
	return classes, rows.Err()
}

// AssignTeacher assigns a teacher to the class for one discipline.
func (r *ClassRepository) AssignTeacher(ctx context.Context, assignment *models.ClassTeacher) error {
	query := `
		INSERT INTO class_teachers (class_id, teacher_id, discipline_id)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, assignment.ClassID, assignment.TeacherID, assignment.DisciplineID)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("teacher already assigned to this class and discipline")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error assigning teacher: %w", err)
	}
	return nil
}

// UnassignTeacher removes a teacher assignment. Join rows are hard-deleted.
func (r *ClassRepository) UnassignTeacher(ctx context.Context, classID, teacherID, disciplineID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM class_teachers
		WHERE class_id = $1 AND teacher_id = $2 AND discipline_id = $3`,
		classID, teacherID, disciplineID)
	if err != nil {
		return fmt.Errorf("error unassigning teacher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IsTeacherAssigned reports whether the teacher teaches the discipline in
// the class. Evaluation creation authorization hangs on this check.
func (r *ClassRepository) IsTeacherAssigned(ctx context.Context, classID, teacherID, disciplineID int64) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM class_teachers
			WHERE class_id = $1 AND teacher_id = $2 AND discipline_id = $3
		)`, classID, teacherID, disciplineID).Scan(&assigned)
	if err != nil {
		return false, fmt.Errorf("error checking teacher assignment: %w", err)
	}
	return assigned, nil
}

// AddStudent adds a student to the class roster.
func (r *ClassRepository) AddStudent(ctx context.Context, classID, studentID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO class_students (class_id, student_id) VALUES ($1, $2)`,
		classID, studentID)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("student already in this class")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error adding student to class: %w", err)
	}
	return nil
}

// RemoveStudent removes a student from the class roster.
func (r *ClassRepository) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM class_students WHERE class_id = $1 AND student_id = $2`,
		classID, studentID)
	if err != nil {
		return fmt.Errorf("error removing student from class: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// HasStudent reports whether the student is on the class roster.
func (r *ClassRepository) HasStudent(ctx context.Context, classID, studentID int64) (bool, error) {
	var present bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2)`,
		classID, studentID).Scan(&present)
	if err != nil {
		return false, fmt.Errorf("error checking roster: %w", err)
	}
	return present, nil
}

// GetRoster retrieves the students enrolled in the class.
func (r *ClassRepository) GetRoster(ctx context.Context, classID int64) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN class_students cs ON cs.student_id = u.id
		WHERE cs.class_id = $1 AND u.deleted_at IS NULL
		ORDER BY u.name
	`

	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.User
	for rows.Next() {
		student, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}
