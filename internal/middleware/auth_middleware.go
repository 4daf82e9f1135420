package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/auth"
)

// ContextUserIDKey is the gin context key holding the authenticated user ID.
const ContextUserIDKey = "userID"

// AuthMiddleware validates JWTs and exposes the caller's identity to
// handlers. Role checks live in the services, not here: the middleware only
// answers who is calling.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID reads the authenticated user ID set by JWTAuth.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
