package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func newFakeStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Role: models.RoleTeacher, IsActive: true},
		3: {ID: 3, Role: models.RoleStudent, IsActive: true},
		4: {ID: 4, Role: models.RoleStudent, IsActive: false},
	}}
}

func TestRequireAdmin(t *testing.T) {
	svc := NewAuthorizationService(newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "admin passes", userID: 1},
		{name: "teacher denied", userID: 2, wantErr: apperrors.ErrPermissionDenied},
		{name: "student denied", userID: 3, wantErr: apperrors.ErrPermissionDenied},
		{name: "disabled account denied", userID: 4, wantErr: apperrors.ErrAccountDisabled},
		{name: "unknown principal denied", userID: 99, wantErr: apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequireAdmin(ctx, tt.userID)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("RequireAdmin() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RequireAdmin() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	svc := NewAuthorizationService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.RequireSelfOrAdmin(ctx, 3, 3); err != nil {
		t.Errorf("owner should pass: %v", err)
	}
	if _, err := svc.RequireSelfOrAdmin(ctx, 1, 3); err != nil {
		t.Errorf("admin should pass: %v", err)
	}
	if _, err := svc.RequireSelfOrAdmin(ctx, 2, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-owner teacher should be denied, got %v", err)
	}
}
