package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

// fakeEvaluationStore reproduces the one-grade-per-student unique index
// and the cascading evaluation delete.
type fakeEvaluationStore struct {
	nextEvalID  int64
	nextGradeID int64
	evaluations map[int64]*models.Evaluation
	grades      map[int64]*models.Grade
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{
		evaluations: make(map[int64]*models.Evaluation),
		grades:      make(map[int64]*models.Grade),
	}
}

func (f *fakeEvaluationStore) CreateEvaluation(_ context.Context, e *models.Evaluation) error {
	f.nextEvalID++
	e.ID = f.nextEvalID
	cp := *e
	f.evaluations[e.ID] = &cp
	return nil
}

func (f *fakeEvaluationStore) GetEvaluationByID(_ context.Context, id int64) (*models.Evaluation, error) {
	row, ok := f.evaluations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeEvaluationStore) GetEvaluationsByClass(_ context.Context, classID int64) ([]*models.Evaluation, error) {
	var out []*models.Evaluation
	for _, row := range f.evaluations {
		if row.ClassID == classID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) SoftDeleteEvaluation(_ context.Context, id int64) error {
	if _, ok := f.evaluations[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.evaluations, id)
	for gid, g := range f.grades {
		if g.EvaluationID == id {
			delete(f.grades, gid)
		}
	}
	return nil
}

func (f *fakeEvaluationStore) CreateGrade(_ context.Context, g *models.Grade) error {
	for _, row := range f.grades {
		if row.EvaluationID == g.EvaluationID && row.StudentID == g.StudentID {
			return apperrors.NewConflictError("grade already recorded for this student")
		}
	}
	f.nextGradeID++
	g.ID = f.nextGradeID
	cp := *g
	f.grades[g.ID] = &cp
	return nil
}

func (f *fakeEvaluationStore) GetGradeByID(_ context.Context, id int64) (*models.Grade, error) {
	row, ok := f.grades[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeEvaluationStore) GetGradesByEvaluation(_ context.Context, evaluationID int64) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, row := range f.grades {
		if row.EvaluationID == evaluationID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) GetGradesByStudent(_ context.Context, studentID int64) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, row := range f.grades {
		if row.StudentID == studentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEvaluationStore) UpdateGrade(_ context.Context, g *models.Grade) error {
	row, ok := f.grades[g.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	row.NumericValue = g.NumericValue
	row.Concept = g.Concept
	return nil
}

// fakeGradeClassStore answers membership questions from fixed sets.
type fakeGradeClassStore struct {
	classes     map[int64]*models.Class
	assignments map[[3]int64]bool // class, teacher, discipline
	roster      map[[2]int64]bool // class, student
}

func (f *fakeGradeClassStore) GetByID(_ context.Context, id int64) (*models.Class, error) {
	row, ok := f.classes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}

func (f *fakeGradeClassStore) IsTeacherAssigned(_ context.Context, classID, teacherID, disciplineID int64) (bool, error) {
	return f.assignments[[3]int64{classID, teacherID, disciplineID}], nil
}

func (f *fakeGradeClassStore) HasStudent(_ context.Context, classID, studentID int64) (bool, error) {
	return f.roster[[2]int64{classID, studentID}], nil
}

func newGradeFixture() (*GradeService, *fakeEvaluationStore) {
	authz := newFakeAuthz(testAdmin, testTeacher, testStudent, testStudent2)
	store := newFakeEvaluationStore()
	classes := &fakeGradeClassStore{
		classes: map[int64]*models.Class{20: {ID: 20, CourseID: 10, Name: "ESOF-2026-1"}},
		assignments: map[[3]int64]bool{
			{20, testTeacher.ID, 30}: true,
		},
		roster: map[[2]int64]bool{
			{20, testStudent.ID}: true,
		},
	}
	return NewGradeService(store, classes, authz), store
}

func evalInput(kind models.EvaluationKind) CreateEvaluationInput {
	return CreateEvaluationInput{
		ClassID:      20,
		DisciplineID: 30,
		Name:         "Prova 1",
		Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Kind:         kind,
	}
}

func float(v float64) *float64 { return &v }

func concept(c models.GradeConcept) *models.GradeConcept { return &c }

func TestCreateEvaluation(t *testing.T) {
	svc, _ := newGradeFixture()

	evaluation, err := svc.CreateEvaluation(context.Background(), testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)
	assert.Equal(t, testTeacher.ID, evaluation.TeacherID)
	assert.Equal(t, models.EvaluationNumeric, evaluation.Kind)
}

func TestCreateEvaluationAuthorization(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	// Students cannot create evaluations.
	_, err := svc.CreateEvaluation(ctx, testStudent.ID, evalInput(models.EvaluationNumeric))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// An admin must name the assigned teacher the evaluation belongs to.
	_, err = svc.CreateEvaluation(ctx, testAdmin.ID, evalInput(models.EvaluationNumeric))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	adminInput := evalInput(models.EvaluationNumeric)
	adminInput.TeacherID = testTeacher.ID
	evaluation, err := svc.CreateEvaluation(ctx, testAdmin.ID, adminInput)
	require.NoError(t, err)
	assert.Equal(t, testTeacher.ID, evaluation.TeacherID)

	// A teacher not assigned to the (class, discipline) pair is denied.
	in := evalInput(models.EvaluationNumeric)
	in.DisciplineID = 31
	_, err = svc.CreateEvaluation(ctx, testTeacher.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAdminGradeOperations(t *testing.T) {
	svc, store := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	grade, err := svc.RecordGrade(ctx, testAdmin.ID, evaluation.ID, testStudent.ID, float(6), nil)
	require.NoError(t, err)

	amended, err := svc.AmendGrade(ctx, testAdmin.ID, grade.ID, float(8), nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, *amended.NumericValue)

	require.NoError(t, svc.DeleteEvaluation(ctx, testAdmin.ID, evaluation.ID))
	assert.Empty(t, store.evaluations)
}

func TestRecordNumericGrade(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	grade, err := svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(8.5), nil)
	require.NoError(t, err)
	require.NotNil(t, grade.NumericValue)
	assert.Equal(t, 8.5, *grade.NumericValue)
	assert.Nil(t, grade.Concept)
}

func TestRecordGradeValueShape(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	numeric, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)
	conceptual, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationConceptual))
	require.NoError(t, err)

	tests := []struct {
		name         string
		evaluationID int64
		value        *float64
		concept      *models.GradeConcept
	}{
		{"both set", numeric.ID, float(7), concept(models.ConceptSatisfactory)},
		{"neither set", numeric.ID, nil, nil},
		{"concept on numeric evaluation", numeric.ID, nil, concept(models.ConceptSatisfactory)},
		{"numeric on conceptual evaluation", conceptual.ID, float(7), nil},
		{"value above range", numeric.ID, float(10.01), nil},
		{"value below range", numeric.ID, float(-0.01), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordGrade(ctx, testTeacher.ID, tt.evaluationID, testStudent.ID, tt.value, tt.concept)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestRecordGradeRangeBoundaries(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(0), nil)
	assert.NoError(t, err)

	evaluation2, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)
	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation2.ID, testStudent.ID, float(10), nil)
	assert.NoError(t, err)
}

func TestRecordGradeDuplicateConflicts(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(6), nil)
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(7), nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRecordGradeStudentNotInClass(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent2.ID, float(6), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRecordGradeOtherTeacherDenied(t *testing.T) {
	otherTeacher := &models.User{ID: 8, Name: "Outro", Email: "outro@escola.edu.br", Role: models.RoleTeacher, IsActive: true}
	authz := newFakeAuthz(testTeacher, otherTeacher, testStudent)
	store := newFakeEvaluationStore()
	classes := &fakeGradeClassStore{
		classes:     map[int64]*models.Class{20: {ID: 20}},
		assignments: map[[3]int64]bool{{20, testTeacher.ID, 30}: true},
		roster:      map[[2]int64]bool{{20, testStudent.ID}: true},
	}
	svc := NewGradeService(store, classes, authz)
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, otherTeacher.ID, evaluation.ID, testStudent.ID, float(6), nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAmendGrade(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)

	grade, err := svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(6), nil)
	require.NoError(t, err)

	amended, err := svc.AmendGrade(ctx, testTeacher.ID, grade.ID, float(7.5), nil)
	require.NoError(t, err)
	assert.Equal(t, grade.ID, amended.ID)
	assert.Equal(t, 7.5, *amended.NumericValue)

	// Amendment obeys the same value rules as recording.
	_, err = svc.AmendGrade(ctx, testTeacher.ID, grade.ID, float(11), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestConceptualGrade(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationConceptual))
	require.NoError(t, err)

	grade, err := svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, nil, concept(models.ConceptSatisfactory))
	require.NoError(t, err)
	require.NotNil(t, grade.Concept)
	assert.Equal(t, models.ConceptSatisfactory, *grade.Concept)

	invalid := models.GradeConcept("EXCELLENT")
	_, err = svc.AmendGrade(ctx, testTeacher.ID, grade.ID, nil, &invalid)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteEvaluationCascades(t *testing.T) {
	svc, store := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)
	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(9), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvaluation(ctx, testTeacher.ID, evaluation.ID))
	assert.Empty(t, store.grades)
}

func TestGradesVisibility(t *testing.T) {
	svc, _ := newGradeFixture()
	ctx := context.Background()

	evaluation, err := svc.CreateEvaluation(ctx, testTeacher.ID, evalInput(models.EvaluationNumeric))
	require.NoError(t, err)
	_, err = svc.RecordGrade(ctx, testTeacher.ID, evaluation.ID, testStudent.ID, float(9), nil)
	require.NoError(t, err)

	// A student sees their own grades but not another's.
	grades, err := svc.GetGradesByStudent(ctx, testStudent.ID, testStudent.ID)
	require.NoError(t, err)
	assert.Len(t, grades, 1)

	_, err = svc.GetGradesByStudent(ctx, testStudent2.ID, testStudent.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
