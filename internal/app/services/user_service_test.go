package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	pkgauth "github.com/edaraujo/secretaria/internal/pkg/auth"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.User

	// IDs whose deletion is blocked by open enrollments.
	restricted map[int64]bool
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{nextID: 100, rows: make(map[int64]*models.User), restricted: make(map[int64]bool)}
	for _, u := range users {
		clone := *u
		s.rows[u.ID] = &clone
	}
	return s
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == user.Email || existing.Login == user.Login ||
			(user.CPF != "" && existing.CPF == user.CPF) {
			return apperrors.NewConflictError("user already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	clone := *user
	f.rows[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetAllByRole(_ context.Context, role models.RoleType) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.rows {
		if u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *user
	f.rows[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) SoftDelete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	if f.restricted[id] {
		return apperrors.NewRestrictedDeleteError("user has open enrollments")
	}
	delete(f.rows, id)
	return nil
}

func newUserFixture() (*UserService, *fakeUserStore) {
	store := newFakeUserStore(testAdmin, testTeacher, testStudent)
	authz := newFakeAuthz(testAdmin, testTeacher, testStudent)
	return NewUserService(store, authz), store
}

func TestUserRegister(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Register(context.Background(), testAdmin.ID, RegisterInput{
		Name:     "Novo Aluno",
		Email:    "Novo@Escola.edu.br",
		Login:    "novo.aluno",
		Password: "segredo123",
		CPF:      "99988877766",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "novo@escola.edu.br", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "segredo123", user.Password)
	assert.True(t, pkgauth.CheckPassword(user.Password, "segredo123"))
}

func TestUserRegisterValidation(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	base := RegisterInput{
		Name:     "Novo Aluno",
		Email:    "novo@escola.edu.br",
		Login:    "novo.aluno",
		Password: "segredo123",
		Role:     models.RoleStudent,
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = " " }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"missing login", func(in *RegisterInput) { in.Login = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "curto" }},
		{"bad role", func(in *RegisterInput) { in.Role = "JANITOR" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := svc.Register(ctx, testAdmin.ID, input)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestUserRegisterRequiresAdmin(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(context.Background(), testTeacher.ID, RegisterInput{
		Name:     "Novo Aluno",
		Email:    "novo@escola.edu.br",
		Login:    "novo.aluno",
		Password: "segredo123",
		Role:     models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestUserRegisterDuplicateConflicts(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	input := RegisterInput{
		Name:     "Novo Aluno",
		Email:    "novo@escola.edu.br",
		Login:    "novo.aluno",
		Password: "segredo123",
		Role:     models.RoleStudent,
	}
	_, err := svc.Register(ctx, testAdmin.ID, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, testAdmin.ID, input)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserVisibility(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.GetByID(ctx, testStudent.ID, testStudent.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, testStudent.ID, testTeacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ListByRole(ctx, testStudent.ID, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	students, err := svc.ListByRole(ctx, testAdmin.ID, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestUserUpdateProfile(t *testing.T) {
	svc, store := newUserFixture()

	updated, err := svc.UpdateProfile(context.Background(), testStudent.ID, testStudent.ID, UpdateProfileInput{
		Name:  "Sofia Atualizada",
		Email: "SOFIA.NOVA@escola.edu.br",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sofia Atualizada", updated.Name)
	assert.Equal(t, "sofia.nova@escola.edu.br", updated.Email)

	stored, err := store.GetByID(context.Background(), testStudent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sofia Atualizada", stored.Name)
}

func TestUserChangePassword(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	hashed, err := pkgauth.HashPassword("senha-atual")
	require.NoError(t, err)
	current, err := store.GetByID(ctx, testStudent.ID)
	require.NoError(t, err)
	current.Password = hashed
	require.NoError(t, store.Update(ctx, current))

	// The current password is checked for non-admin callers.
	err = svc.ChangePassword(ctx, testStudent.ID, testStudent.ID, "senha-errada", "senha-nova-123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, testStudent.ID, testStudent.ID, "senha-atual", "senha-nova-123")
	require.NoError(t, err)

	// Admins reset without it.
	err = svc.ChangePassword(ctx, testAdmin.ID, testStudent.ID, "", "senha-admin-reset")
	require.NoError(t, err)

	stored, err := store.GetByID(ctx, testStudent.ID)
	require.NoError(t, err)
	assert.True(t, pkgauth.CheckPassword(stored.Password, "senha-admin-reset"))
}

func TestUserDeactivate(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	err := svc.Deactivate(ctx, testStudent.ID, testTeacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.Deactivate(ctx, testAdmin.ID, testAdmin.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	store.restricted[testStudent.ID] = true
	err = svc.Deactivate(ctx, testAdmin.ID, testStudent.ID)
	assert.ErrorIs(t, err, apperrors.ErrRestrictedDelete)

	store.restricted[testStudent.ID] = false
	require.NoError(t, svc.Deactivate(ctx, testAdmin.ID, testTeacher.ID))
	_, err = store.GetByID(ctx, testTeacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
