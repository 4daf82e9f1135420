package services

import (
	"context"
	"strings"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// EvaluationStore is the slice of the evaluation repository the service
// uses.
type EvaluationStore interface {
	CreateEvaluation(ctx context.Context, evaluation *models.Evaluation) error
	GetEvaluationByID(ctx context.Context, id int64) (*models.Evaluation, error)
	GetEvaluationsByClass(ctx context.Context, classID int64) ([]*models.Evaluation, error)
	SoftDeleteEvaluation(ctx context.Context, id int64) error
	CreateGrade(ctx context.Context, grade *models.Grade) error
	GetGradeByID(ctx context.Context, id int64) (*models.Grade, error)
	GetGradesByEvaluation(ctx context.Context, evaluationID int64) ([]*models.Grade, error)
	GetGradesByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error)
	UpdateGrade(ctx context.Context, grade *models.Grade) error
}

// GradeClassStore answers class membership questions for authorization.
type GradeClassStore interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	IsTeacherAssigned(ctx context.Context, classID, teacherID, disciplineID int64) (bool, error)
	HasStudent(ctx context.Context, classID, studentID int64) (bool, error)
}

// GradeService records evaluations and per-student results. A grade carries
// exactly one of a numeric value or a concept, matching the evaluation's
// kind; the store's CHECK constraints back the same rules.
type GradeService struct {
	evaluations EvaluationStore
	classes     GradeClassStore
	authz       Authorizer
}

// NewGradeService creates a new grade service
func NewGradeService(evaluations EvaluationStore, classes GradeClassStore, authz Authorizer) *GradeService {
	return &GradeService{
		evaluations: evaluations,
		classes:     classes,
		authz:       authz,
	}
}

// CreateEvaluationInput carries the fields for a new evaluation. TeacherID
// names the owning teacher when an admin creates on a teacher's behalf;
// teachers always own their own evaluations and the field is ignored.
type CreateEvaluationInput struct {
	ClassID      int64
	DisciplineID int64
	TeacherID    int64
	Name         string
	Date         time.Time
	Kind         models.EvaluationKind
}

// CreateEvaluation registers an evaluation for a class and discipline. A
// teacher must be assigned to that (class, discipline) pair and owns the
// evaluation; an admin creates on behalf of the assigned teacher named in
// the input.
func (s *GradeService) CreateEvaluation(ctx context.Context, actorID int64, input CreateEvaluationInput) (*models.Evaluation, error) {
	actor, err := s.authz.ResolveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	teacherID := actor.ID
	switch actor.Role {
	case models.RoleTeacher:
	case models.RoleAdmin:
		if input.TeacherID < 1 {
			return nil, apperrors.NewValidationError("a teacher is required when an admin creates an evaluation")
		}
		teacherID = input.TeacherID
	default:
		return nil, apperrors.NewForbiddenError("teacher or admin role required")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("evaluation name is required")
	}
	if !input.Kind.Valid() {
		return nil, apperrors.NewValidationError("invalid evaluation kind")
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("evaluation date is required")
	}

	if _, err := s.classes.GetByID(ctx, input.ClassID); err != nil {
		return nil, err
	}

	assigned, err := s.classes.IsTeacherAssigned(ctx, input.ClassID, teacherID, input.DisciplineID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, apperrors.NewForbiddenError("teacher is not assigned to this class and discipline")
	}

	evaluation := &models.Evaluation{
		ClassID:      input.ClassID,
		TeacherID:    teacherID,
		DisciplineID: input.DisciplineID,
		Name:         strings.TrimSpace(input.Name),
		Date:         input.Date,
		Kind:         input.Kind,
	}
	if err := s.evaluations.CreateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("evaluationID", evaluation.ID).
		Int64("classID", input.ClassID).
		Int64("teacherID", teacherID).
		Msg("Evaluation created")
	return evaluation, nil
}

// RecordGrade records a student's result for an evaluation. The evaluation's
// own teacher or an admin may record; the value shape must match the
// evaluation kind; the student must belong to the class. A second grade for
// the same (evaluation, student) fails with ErrConflict off the store's
// unique index; corrections go through AmendGrade.
func (s *GradeService) RecordGrade(ctx context.Context, actorID, evaluationID, studentID int64, numericValue *float64, concept *models.GradeConcept) (*models.Grade, error) {
	evaluation, err := s.authorizeGrading(ctx, actorID, evaluationID)
	if err != nil {
		return nil, err
	}

	if err := validateGradeValue(evaluation.Kind, numericValue, concept); err != nil {
		return nil, err
	}

	inClass, err := s.classes.HasStudent(ctx, evaluation.ClassID, studentID)
	if err != nil {
		return nil, err
	}
	if !inClass {
		return nil, apperrors.NewValidationError("student does not belong to the evaluation's class")
	}

	grade := &models.Grade{
		EvaluationID: evaluationID,
		StudentID:    studentID,
		NumericValue: numericValue,
		Concept:      concept,
	}
	if err := s.evaluations.CreateGrade(ctx, grade); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("gradeID", grade.ID).
		Int64("evaluationID", evaluationID).
		Int64("studentID", studentID).
		Msg("Grade recorded")
	return grade, nil
}

// AmendGrade replaces a recorded grade's value in place. Same authorization
// and value rules as recording; the row keeps its identity so history stays
// attached to the original entry.
func (s *GradeService) AmendGrade(ctx context.Context, actorID, gradeID int64, numericValue *float64, concept *models.GradeConcept) (*models.Grade, error) {
	grade, err := s.evaluations.GetGradeByID(ctx, gradeID)
	if err != nil {
		return nil, err
	}

	evaluation, err := s.authorizeGrading(ctx, actorID, grade.EvaluationID)
	if err != nil {
		return nil, err
	}

	if err := validateGradeValue(evaluation.Kind, numericValue, concept); err != nil {
		return nil, err
	}

	grade.NumericValue = numericValue
	grade.Concept = concept
	if err := s.evaluations.UpdateGrade(ctx, grade); err != nil {
		return nil, err
	}

	logger.Info().Int64("gradeID", gradeID).Msg("Grade amended")
	return grade, nil
}

// DeleteEvaluation removes an evaluation and all grades recorded under it.
// The evaluation's own teacher or an admin may delete.
func (s *GradeService) DeleteEvaluation(ctx context.Context, actorID, evaluationID int64) error {
	if _, err := s.authorizeGrading(ctx, actorID, evaluationID); err != nil {
		return err
	}
	if err := s.evaluations.SoftDeleteEvaluation(ctx, evaluationID); err != nil {
		return err
	}
	logger.Info().Int64("evaluationID", evaluationID).Msg("Evaluation deleted")
	return nil
}

// GetEvaluationsByClass lists a class's evaluations.
func (s *GradeService) GetEvaluationsByClass(ctx context.Context, actorID, classID int64) ([]*models.Evaluation, error) {
	if _, err := s.authz.ResolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	return s.evaluations.GetEvaluationsByClass(ctx, classID)
}

// GetGradesByEvaluation lists an evaluation's grades, visible to its
// teacher or an admin.
func (s *GradeService) GetGradesByEvaluation(ctx context.Context, actorID, evaluationID int64) ([]*models.Grade, error) {
	evaluation, err := s.evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, evaluation.TeacherID); err != nil {
		return nil, err
	}
	return s.evaluations.GetGradesByEvaluation(ctx, evaluationID)
}

// GetGradesByStudent lists a student's grades, visible to the student or an
// admin.
func (s *GradeService) GetGradesByStudent(ctx context.Context, actorID, studentID int64) ([]*models.Grade, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, studentID); err != nil {
		return nil, err
	}
	return s.evaluations.GetGradesByStudent(ctx, studentID)
}

// authorizeGrading loads the evaluation and verifies the actor is the
// teacher who owns it or an admin.
func (s *GradeService) authorizeGrading(ctx context.Context, actorID, evaluationID int64) (*models.Evaluation, error) {
	actor, err := s.authz.ResolveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	evaluation, err := s.evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin {
		return evaluation, nil
	}
	if actor.Role != models.RoleTeacher || evaluation.TeacherID != actor.ID {
		return nil, apperrors.NewForbiddenError("grading is restricted to the evaluation's teacher or an admin")
	}
	return evaluation, nil
}

// validateGradeValue enforces the exactly-one shape rule and the per-kind
// constraints: numeric in [0, 10] with two decimal places for NUMERIC
// evaluations, a valid concept for CONCEPTUAL ones.
func validateGradeValue(kind models.EvaluationKind, numericValue *float64, concept *models.GradeConcept) error {
	if (numericValue == nil) == (concept == nil) {
		return apperrors.NewValidationError("exactly one of numeric value or concept must be set")
	}

	switch kind {
	case models.EvaluationNumeric:
		if numericValue == nil {
			return apperrors.NewValidationError("numeric evaluation requires a numeric value")
		}
		if *numericValue < 0 || *numericValue > 10 {
			return apperrors.NewValidationError("numeric value must be between 0.00 and 10.00")
		}
	case models.EvaluationConceptual:
		if concept == nil {
			return apperrors.NewValidationError("conceptual evaluation requires a concept")
		}
		if !concept.Valid() {
			return apperrors.NewValidationError("invalid grade concept")
		}
	default:
		return apperrors.NewValidationError("invalid evaluation kind")
	}
	return nil
}
