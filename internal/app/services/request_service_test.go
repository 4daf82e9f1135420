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

// fakeRequestStore reproduces the review guard for requests.
type fakeRequestStore struct {
	nextID     int64
	nextTypeID int64
	rows       map[int64]*models.Request
	types      map[int64]*models.RequestType
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		rows:  make(map[int64]*models.Request),
		types: make(map[int64]*models.RequestType),
	}
}

func (f *fakeRequestStore) Create(_ context.Context, r *models.Request) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*models.Request, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeRequestStore) GetByStudent(_ context.Context, studentID int64) ([]*models.Request, error) {
	var out []*models.Request
	for _, row := range f.rows {
		if row.StudentID == studentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) GetPending(_ context.Context) ([]*models.Request, error) {
	var out []*models.Request
	for _, row := range f.rows {
		if row.Status == models.ReviewPending {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) Review(_ context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error {
	row, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if row.Status != models.ReviewPending {
		return apperrors.NewInvalidTransitionError("request has already been reviewed")
	}
	row.Status = status
	row.ReviewerID = &reviewerID
	row.ReviewedAt = &reviewedAt
	row.Notes = notes
	return nil
}

func (f *fakeRequestStore) CreateType(_ context.Context, rt *models.RequestType) error {
	f.nextTypeID++
	rt.ID = f.nextTypeID
	cp := *rt
	f.types[rt.ID] = &cp
	return nil
}

func (f *fakeRequestStore) GetTypeByID(_ context.Context, id int64) (*models.RequestType, error) {
	row, ok := f.types[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}

func (f *fakeRequestStore) GetAllTypes(_ context.Context) ([]*models.RequestType, error) {
	var out []*models.RequestType
	for _, row := range f.types {
		out = append(out, row)
	}
	return out, nil
}

func newRequestFixture(t *testing.T) (*RequestService, *fakeNotifier, int64) {
	t.Helper()
	authz := newFakeAuthz(testAdmin, testTeacher, testStudent, testStudent2)
	store := newFakeRequestStore()
	notifier := &fakeNotifier{}
	svc := NewRequestService(store, authz, notifier)

	rt, err := svc.CreateType(context.Background(), testAdmin.ID, "Declaracao de Matricula")
	require.NoError(t, err)
	return svc, notifier, rt.ID
}

func TestRequestOpen(t *testing.T) {
	svc, _, typeID := newRequestFixture(t)

	request, err := svc.Open(context.Background(), testStudent.ID, testStudent.ID, typeID, "Preciso para o estagio")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, request.Status)
}

func TestRequestOpenValidation(t *testing.T) {
	svc, _, typeID := newRequestFixture(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, testStudent.ID, testStudent.ID, typeID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Open(ctx, testStudent.ID, testStudent.ID, 999, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Teachers do not open requests.
	_, err = svc.Open(ctx, testAdmin.ID, testTeacher.ID, typeID, "x")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Students do not open requests for each other.
	_, err = svc.Open(ctx, testStudent2.ID, testStudent.ID, typeID, "x")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRequestReview(t *testing.T) {
	svc, notifier, typeID := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.Open(ctx, testStudent.ID, testStudent.ID, typeID, "Preciso para o estagio")
	require.NoError(t, err)

	notes := "emitida em duas vias"
	reviewed, err := svc.Review(ctx, testAdmin.ID, request.ID, models.ReviewApproved, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	assert.Equal(t, testAdmin.ID, *reviewed.ReviewerID)
	assert.Equal(t, 1, notifier.requestReviewed)
}

func TestRequestReviewIsOneShot(t *testing.T) {
	svc, _, typeID := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.Open(ctx, testStudent.ID, testStudent.ID, typeID, "x")
	require.NoError(t, err)

	_, err = svc.Review(ctx, testAdmin.ID, request.ID, models.ReviewRejected, nil)
	require.NoError(t, err)

	_, err = svc.Review(ctx, testAdmin.ID, request.ID, models.ReviewApproved, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRequestReviewAuthorization(t *testing.T) {
	svc, _, typeID := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.Open(ctx, testStudent.ID, testStudent.ID, typeID, "x")
	require.NoError(t, err)

	_, err = svc.Review(ctx, testTeacher.ID, request.ID, models.ReviewApproved, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Review(ctx, testAdmin.ID, request.ID, models.ReviewPending, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRequestVisibility(t *testing.T) {
	svc, _, typeID := newRequestFixture(t)
	ctx := context.Background()

	request, err := svc.Open(ctx, testStudent.ID, testStudent.ID, typeID, "x")
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, testStudent2.ID, request.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	pending, err := svc.ListPending(ctx, testAdmin.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.ListPending(ctx, testStudent.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRequestCreateTypeRequiresAdmin(t *testing.T) {
	svc, _, _ := newRequestFixture(t)

	_, err := svc.CreateType(context.Background(), testStudent.ID, "Segunda Via")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
