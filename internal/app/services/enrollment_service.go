package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// EnrollmentStore is the slice of the enrollment repository the service
// uses. The store enforces the one-open-enrollment invariant and the
// status-guarded transitions; the service owns validation and authorization.
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetOpenByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error)
	GetAllByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.EnrollmentStatus, cancelReason *string) error
	CancelFrom(ctx context.Context, id int64, reason string) error
}

// EnrollmentCourseStore is the slice of the course repository the service
// needs to validate enrollment targets.
type EnrollmentCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollmentService owns the enrollment state machine:
// PENDING -> ACTIVE -> CANCELLED, with PENDING -> CANCELLED also legal and
// CANCELLED terminal.
type EnrollmentService struct {
	enrollments EnrollmentStore
	courses     EnrollmentCourseStore
	authz       Authorizer
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollments EnrollmentStore, courses EnrollmentCourseStore, authz Authorizer) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		authz:       authz,
	}
}

// Create opens a PENDING enrollment for the student in the course. The
// student may enroll themselves; an admin may enroll anyone. A student with
// an open (pending or active) enrollment gets ErrConflict: the store's
// partial unique index closes the check-then-insert race, so concurrent
// creates yield exactly one success.
func (s *EnrollmentService) Create(ctx context.Context, actorID, studentID, courseID int64) (*models.Enrollment, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, studentID); err != nil {
		return nil, err
	}

	student, err := s.authz.ResolveUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewValidationError("enrollment subject must be a student")
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		Status:         models.EnrollmentPending,
		EnrollmentDate: time.Now(),
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("enrollmentID", enrollment.ID).
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Msg("Enrollment created")

	return enrollment, nil
}

// Activate moves a PENDING enrollment to ACTIVE. Admin only. Contract
// generation is the caller's decision, not a side effect here.
func (s *EnrollmentService) Activate(ctx context.Context, actorID, enrollmentID int64) (*models.Enrollment, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if err := s.enrollments.UpdateStatus(ctx, enrollmentID, models.EnrollmentPending, models.EnrollmentActive, nil); err != nil {
		return nil, err
	}

	logger.Info().Int64("enrollmentID", enrollmentID).Msg("Enrollment activated")
	return s.enrollments.GetByID(ctx, enrollmentID)
}

// Cancel moves a PENDING or ACTIVE enrollment to CANCELLED, recording the
// reason. The owning student or an admin may cancel; CANCELLED is terminal.
func (s *EnrollmentService) Cancel(ctx context.Context, actorID, enrollmentID int64, reason string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, enrollment.StudentID); err != nil {
		return nil, err
	}

	if reason == "" {
		return nil, apperrors.NewValidationError("cancellation reason is required")
	}

	if err := s.enrollments.CancelFrom(ctx, enrollmentID, reason); err != nil {
		return nil, err
	}

	logger.Info().Int64("enrollmentID", enrollmentID).Str("reason", reason).Msg("Enrollment cancelled")
	return s.enrollments.GetByID(ctx, enrollmentID)
}

// GetByID retrieves an enrollment, visible to its student or an admin.
func (s *EnrollmentService) GetByID(ctx context.Context, actorID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, enrollment.StudentID); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListByStudent retrieves a student's enrollment history, visible to the
// student or an admin.
func (s *EnrollmentService) ListByStudent(ctx context.Context, actorID, studentID int64) ([]*models.Enrollment, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, studentID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.GetAllByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return enrollments, nil
}
