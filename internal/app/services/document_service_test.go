package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

func newDocumentFixture() (*DocumentService, *fakeDocumentStore, *fakeNotifier) {
	authz := newFakeAuthz(testAdmin, testTeacher, testStudent, testStudent2)
	store := newFakeDocumentStore()
	docTypes := &fakeDocumentTypeStore{rows: map[int64]*models.DocumentType{
		1: {ID: 1, Name: "RG", AppliesTo: models.AppliesToBoth, Required: true},
		2: {ID: 2, Name: "Historico Escolar", AppliesTo: models.AppliesToStudent, Required: true},
		3: {ID: 3, Name: "Diploma", AppliesTo: models.AppliesToTeacher, Required: true},
	}}
	notifier := &fakeNotifier{}
	return NewDocumentService(store, docTypes, authz, notifier), store, notifier
}

func submitInput(ownerID, typeID int64) SubmitDocumentInput {
	return SubmitDocumentInput{
		OwnerID:        ownerID,
		DocumentTypeID: typeID,
		ArtifactRef:    "documents/abc.pdf",
		FileName:       "rg.pdf",
		Size:           2048,
		MimeType:       "application/pdf",
	}
}

func TestDocumentSubmit(t *testing.T) {
	svc, _, _ := newDocumentFixture()

	doc, err := svc.Submit(context.Background(), testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, doc.Status)
	assert.Nil(t, doc.ReviewerID)
}

func TestDocumentSubmitValidation(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SubmitDocumentInput)
	}{
		{"rejected mime type", func(in *SubmitDocumentInput) { in.MimeType = "application/x-msdownload" }},
		{"negative size", func(in *SubmitDocumentInput) { in.Size = -1 }},
		{"missing artifact ref", func(in *SubmitDocumentInput) { in.ArtifactRef = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := submitInput(testStudent.ID, 1)
			tt.mutate(&in)
			_, err := svc.Submit(ctx, testStudent.ID, in)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestDocumentSubmitRoleScope(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	// A student cannot submit a teacher-scoped type.
	_, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 3))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// A teacher can submit a BOTH-scoped type.
	_, err = svc.Submit(ctx, testTeacher.ID, submitInput(testTeacher.ID, 1))
	assert.NoError(t, err)
}

func TestDocumentSubmitForAnotherOwner(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, testStudent2.ID, submitInput(testStudent.ID, 1))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Submit(ctx, testAdmin.ID, submitInput(testStudent.ID, 1))
	assert.NoError(t, err)
}

func TestDocumentReview(t *testing.T) {
	svc, _, notifier := newDocumentFixture()
	ctx := context.Background()

	doc, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)

	reviewed, err := svc.Review(ctx, testAdmin.ID, doc.ID, models.ReviewApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	assert.Equal(t, testAdmin.ID, *reviewed.ReviewerID)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, 1, notifier.documentReviewed)
}

func TestDocumentReviewIsOneShot(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	doc, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)

	first, err := svc.Review(ctx, testAdmin.ID, doc.ID, models.ReviewRejected, nil)
	require.NoError(t, err)

	// The second decision loses; the first reviewer's attribution stands.
	_, err = svc.Review(ctx, testAdmin.ID, doc.ID, models.ReviewApproved, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	got, err := svc.GetByID(ctx, testAdmin.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, got.Status)
	assert.Equal(t, *first.ReviewedAt, *got.ReviewedAt)
}

func TestDocumentReviewRejectsNonTerminalDecision(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	doc, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)

	_, err = svc.Review(ctx, testAdmin.ID, doc.ID, models.ReviewPending, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDocumentReviewRequiresAdmin(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	doc, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)

	_, err = svc.Review(ctx, testTeacher.ID, doc.ID, models.ReviewApproved, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDocumentRejectedThenResubmit(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	doc, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)
	_, err = svc.Review(ctx, testAdmin.ID, doc.ID, models.ReviewRejected, nil)
	require.NoError(t, err)

	// A rejected document is not resubmitted in place; the new upload is a
	// new document and the rejected one stays in history.
	resubmitted, err := svc.Submit(ctx, testStudent.ID, submitInput(testStudent.ID, 1))
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, resubmitted.ID)

	docs, err := svc.ListByOwner(ctx, testStudent.ID, testStudent.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentListPendingRequiresAdmin(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	_, err := svc.ListPending(ctx, testStudent.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ListPending(ctx, testAdmin.ID)
	assert.NoError(t, err)
}

func TestDocumentFindRequiredOutstanding(t *testing.T) {
	svc, store, _ := newDocumentFixture()
	ctx := context.Background()

	store.outstanding = []*models.DocumentType{
		{ID: 2, Name: "Historico Escolar", AppliesTo: models.AppliesToStudent, Required: true},
	}

	missing, err := svc.FindRequiredOutstanding(ctx, testStudent.ID, testStudent.ID)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "Historico Escolar", missing[0].Name)

	_, err = svc.FindRequiredOutstanding(ctx, testStudent2.ID, testStudent.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
