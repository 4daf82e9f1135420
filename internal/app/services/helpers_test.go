package services

import (
	"context"
	"sync"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

// fakeAuthz mirrors auth.AuthorizationService against an in-memory user
// set.
type fakeAuthz struct {
	users map[int64]*models.User
}

func newFakeAuthz(users ...*models.User) *fakeAuthz {
	m := make(map[int64]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeAuthz{users: m}
}

func (f *fakeAuthz) ResolveUser(_ context.Context, userID int64) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NewForbiddenError("unknown principal")
	}
	if !u.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return u, nil
}

func (f *fakeAuthz) RequireAdmin(ctx context.Context, userID int64) (*models.User, error) {
	u, err := f.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("admin role required")
	}
	return u, nil
}

func (f *fakeAuthz) RequireTeacher(ctx context.Context, userID int64) (*models.User, error) {
	u, err := f.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleTeacher {
		return nil, apperrors.NewForbiddenError("teacher role required")
	}
	return u, nil
}

func (f *fakeAuthz) RequireSelfOrAdmin(ctx context.Context, userID, ownerID int64) (*models.User, error) {
	u, err := f.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.ID != ownerID && u.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("operation restricted to the owner or an admin")
	}
	return u, nil
}

// fakeNotifier records outbound notifications.
type fakeNotifier struct {
	documentReviewed int
	contractIssued   int
	requestReviewed  int
}

func (f *fakeNotifier) SendDocumentReviewed(_, _, _, _ string) error {
	f.documentReviewed++
	return nil
}

func (f *fakeNotifier) SendContractIssued(_, _ string, _, _ int) error {
	f.contractIssued++
	return nil
}

func (f *fakeNotifier) SendRequestReviewed(_, _, _, _ string) error {
	f.requestReviewed++
	return nil
}

// fakeEnrollmentStore reproduces the repository's guarded transitions and
// the one-open-enrollment unique index in memory.
type fakeEnrollmentStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Enrollment
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{rows: make(map[int64]*models.Enrollment)}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == e.StudentID && row.Status != models.EnrollmentCancelled {
			return apperrors.NewConflictError("student already has an open enrollment")
		}
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeEnrollmentStore) GetOpenByStudent(_ context.Context, studentID int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == studentID && row.Status != models.EnrollmentCancelled {
			cp := *row
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEnrollmentStore) GetAllByStudent(_ context.Context, studentID int64) ([]*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Enrollment
	for _, row := range f.rows {
		if row.StudentID == studentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) UpdateStatus(_ context.Context, id int64, from, to models.EnrollmentStatus, cancelReason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if row.Status != from {
		return apperrors.NewInvalidTransitionError("enrollment is not in status " + string(from))
	}
	row.Status = to
	row.CancelReason = cancelReason
	return nil
}

func (f *fakeEnrollmentStore) CancelFrom(_ context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if row.Status == models.EnrollmentCancelled {
		return apperrors.NewInvalidTransitionError("enrollment is already cancelled")
	}
	row.Status = models.EnrollmentCancelled
	row.CancelReason = &reason
	return nil
}

// fakeCourseStore serves course lookups for enrollment and contract tests.
type fakeCourseStore struct {
	rows map[int64]*models.Course
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}

// fakeDocumentStore reproduces the review guard and the pending queue.
type fakeDocumentStore struct {
	nextID      int64
	rows        map[int64]*models.Document
	outstanding []*models.DocumentType
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{rows: make(map[int64]*models.Document)}
}

func (f *fakeDocumentStore) Create(_ context.Context, d *models.Document) error {
	f.nextID++
	d.ID = f.nextID
	cp := *d
	f.rows[d.ID] = &cp
	return nil
}

func (f *fakeDocumentStore) GetByID(_ context.Context, id int64) (*models.Document, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeDocumentStore) GetByOwner(_ context.Context, ownerID int64) ([]*models.Document, error) {
	var out []*models.Document
	for _, row := range f.rows {
		if row.OwnerID == ownerID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) GetPending(_ context.Context) ([]*models.Document, error) {
	var out []*models.Document
	for _, row := range f.rows {
		if row.Status == models.ReviewPending {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) Review(_ context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error {
	row, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if row.Status != models.ReviewPending {
		return apperrors.NewInvalidTransitionError("document has already been reviewed")
	}
	row.Status = status
	row.ReviewerID = &reviewerID
	row.ReviewedAt = &reviewedAt
	row.Notes = notes
	return nil
}

func (f *fakeDocumentStore) FindRequiredOutstanding(_ context.Context, _ int64, _ models.RoleType) ([]*models.DocumentType, error) {
	return f.outstanding, nil
}

// fakeDocumentTypeStore serves the document type catalog.
type fakeDocumentTypeStore struct {
	rows map[int64]*models.DocumentType
}

func (f *fakeDocumentTypeStore) GetByID(_ context.Context, id int64) (*models.DocumentType, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}
