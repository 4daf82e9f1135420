package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login authenticates credentials and returns a token pair.
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, tokens, err := ac.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:  tokens.AccessToken,
			TokenType:    "Bearer",
			ExpiresIn:    tokens.ExpiresIn,
			RefreshToken: tokens.RefreshToken,
		},
		User: user,
	}))
}
