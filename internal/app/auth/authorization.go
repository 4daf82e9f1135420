// Package auth is the single authorization dispatch point. Lifecycle
// services ask it role and ownership questions; nothing else in the
// workflow core branches on a role value.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

// UserStore is the slice of the user repository the authorizer needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService resolves a principal's role from the store on every
// call. The role claim inside a token is never trusted; a role change or
// deactivation takes effect on the next operation.
type AuthorizationService struct {
	users UserStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserStore) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// ResolveUser loads the principal and verifies the account is active.
func (s *AuthorizationService) ResolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewForbiddenError("unknown principal")
		}
		return nil, fmt.Errorf("error resolving principal: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}

// RequireAdmin verifies the principal holds the admin role.
func (s *AuthorizationService) RequireAdmin(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("admin role required")
	}
	return user, nil
}

// RequireTeacher verifies the principal holds the teacher role.
func (s *AuthorizationService) RequireTeacher(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, apperrors.NewForbiddenError("teacher role required")
	}
	return user, nil
}

// RequireSelfOrAdmin verifies the principal is the owner of the entity or
// an admin. Students and teachers only reach their own records through
// this gate.
func (s *AuthorizationService) RequireSelfOrAdmin(ctx context.Context, userID, ownerID int64) (*models.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID != ownerID && user.Role != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("not the owner of this resource")
	}
	return user, nil
}
