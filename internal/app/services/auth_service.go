package services

import (
	"context"
	"strings"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	pkgauth "github.com/edaraujo/secretaria/internal/pkg/auth"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// AuthUserStore resolves users by login for authentication.
type AuthUserStore interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// TokenPair carries the tokens returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthService authenticates credentials and mints JWTs.
type AuthService struct {
	users AuthUserStore
	jwt   *pkgauth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users AuthUserStore, jwt *pkgauth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login verifies the login and password and returns a token pair. Unknown
// logins and wrong passwords both fail with ErrInvalidCredentials so the
// response does not reveal which part was wrong.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, *TokenPair, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}
	if !pkgauth.CheckPassword(user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("login", user.Login).Msg("User logged in")
	return user, &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// ValidateToken parses and validates an access token's claims.
func (s *AuthService) ValidateToken(tokenString string) (*pkgauth.Claims, error) {
	return s.jwt.ValidateToken(tokenString)
}
