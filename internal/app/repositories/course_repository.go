package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses and their
// discipline grid.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, course.Name, course.Description).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a live course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM courses
		WHERE id = $1 AND deleted_at IS NULL
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.Name, &course.Description,
		&course.CreatedAt, &course.UpdatedAt, &course.DeletedAt,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &course, nil
}

// GetAll retrieves all live courses.
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM courses
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID, &course.Name, &course.Description,
			&course.CreatedAt, &course.UpdatedAt, &course.DeletedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}
	return courses, rows.Err()
}

// Update updates an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	cmdTag, err := r.db.Exec(ctx, query, course.Name, course.Description, course.ID)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a course deleted. Rejected while any live enrollment
// references the course; enrollments are never cascade-deleted.
func (r *CourseRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The update takes the row lock before the enrollment probe, so a
	// concurrent enrollment insert holding FOR SHARE on this course
	// either commits first and is seen here, or blocks until we finish.
	cmdTag, err := tx.Exec(ctx, `
		UPDATE courses SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	var hasEnrollments bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND deleted_at IS NULL)`,
		id).Scan(&hasEnrollments)
	if err != nil {
		return fmt.Errorf("error checking enrollments: %w", err)
	}
	if hasEnrollments {
		return apperrors.NewRestrictedDeleteError("course has enrollments and cannot be deleted")
	}

	return tx.Commit(ctx)
}

// AddDiscipline links a discipline into the course grid at a semester.
// The (course, discipline, semester) triple is unique.
func (r *CourseRepository) AddDiscipline(ctx context.Context, link *models.CourseDiscipline) error {
	query := `
		INSERT INTO course_disciplines (course_id, discipline_id, semester)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, link.CourseID, link.DisciplineID, link.Semester)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return apperrors.NewConflictError("discipline already linked to this course and semester")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error linking discipline: %w", err)
	}
	return nil
}

// RemoveDiscipline removes a grid link. Join rows are hard-deleted.
func (r *CourseRepository) RemoveDiscipline(ctx context.Context, courseID, disciplineID int64, semester int) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM course_disciplines
		WHERE course_id = $1 AND discipline_id = $2 AND semester = $3`,
		courseID, disciplineID, semester)
	if err != nil {
		return fmt.Errorf("error unlinking discipline: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetDisciplines retrieves a course's grid with discipline details.
func (r *CourseRepository) GetDisciplines(ctx context.Context, courseID int64) ([]*models.CourseDiscipline, error) {
	query := `
		SELECT cd.course_id, cd.discipline_id, cd.semester,
		       d.id, d.name, d.workload, d.created_at, d.updated_at
		FROM course_disciplines cd
		JOIN disciplines d ON d.id = cd.discipline_id AND d.deleted_at IS NULL
		WHERE cd.course_id = $1
		ORDER BY cd.semester, d.name
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.CourseDiscipline
	for rows.Next() {
		var link models.CourseDiscipline
		var d models.Discipline
		if err := rows.Scan(
			&link.CourseID, &link.DisciplineID, &link.Semester,
			&d.ID, &d.Name, &d.Workload, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		link.Discipline = &d
		links = append(links, &link)
	}
	return links, rows.Err()
}
