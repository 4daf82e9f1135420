package services

import (
	"context"
	"strings"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	pkgauth "github.com/edaraujo/secretaria/internal/pkg/auth"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// UserStore is the slice of the user repository the service uses.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAllByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id int64) error
}

// UserService manages account registration and maintenance. Registration is
// staff work; self-signup is not supported.
type UserService struct {
	users UserStore
	authz Authorizer
}

// NewUserService creates a new user service
func NewUserService(users UserStore, authz Authorizer) *UserService {
	return &UserService{users: users, authz: authz}
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Login    string
	Password string
	CPF      string
	RG       string
	Role     models.RoleType
}

// Register creates a new account. Admin only. A duplicate email, login or
// CPF among live users fails with ErrConflict off the store's unique
// indexes.
func (s *UserService) Register(ctx context.Context, actorID int64, input RegisterInput) (*models.User, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Login = strings.TrimSpace(input.Login)
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if input.Login == "" {
		return nil, apperrors.NewValidationError("login is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role")
	}

	hashed, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Login:    input.Login,
		Password: hashed,
		CPF:      input.CPF,
		RG:       input.RG,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("userID", user.ID).
		Str("login", user.Login).
		Str("role", string(user.Role)).
		Msg("User registered")
	return user, nil
}

// GetByID retrieves a user, visible to themselves or an admin.
func (s *UserService) GetByID(ctx context.Context, actorID, userID int64) (*models.User, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, userID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ListByRole lists live accounts with the given role. Admin only.
func (s *UserService) ListByRole(ctx context.Context, actorID int64, role models.RoleType) ([]*models.User, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role")
	}
	return s.users.GetAllByRole(ctx, role)
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Name  string
	Email string
	RG    string
}

// UpdateProfile updates a user's own mutable fields. Role, login and CPF do
// not change through this path.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID int64, input UpdateProfileInput) (*models.User, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, userID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(strings.ToLower(input.Email)); email != "" {
		if !strings.Contains(email, "@") {
			return nil, apperrors.NewValidationError("a valid email is required")
		}
		user.Email = email
	}
	if rg := strings.TrimSpace(input.RG); rg != "" {
		user.RG = rg
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces a user's password after verifying the current
// one. Admins reset without the current password.
func (s *UserService) ChangePassword(ctx context.Context, actorID, userID int64, currentPassword, newPassword string) error {
	actor, err := s.authz.RequireSelfOrAdmin(ctx, actorID, userID)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if actor.Role != models.RoleAdmin {
		if !pkgauth.CheckPassword(user.Password, currentPassword) {
			return apperrors.ErrInvalidCredentials
		}
	}
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters")
	}

	hashed, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// Deactivate soft-deletes an account. Admin only. A user holding open
// enrollments fails with ErrRestrictedDelete from the store.
func (s *UserService) Deactivate(ctx context.Context, actorID, userID int64) error {
	admin, err := s.authz.RequireAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if admin.ID == userID {
		return apperrors.NewValidationError("cannot deactivate your own account")
	}

	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return err
	}

	logger.Info().Int64("userID", userID).Int64("actorID", actorID).Msg("User deactivated")
	return nil
}
