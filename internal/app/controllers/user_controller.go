package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// UserController handles account management endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register creates a new account. Admin only.
func (uc *UserController) Register(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.userService.Register(c.Request.Context(), actor, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Login:    req.Login,
		Password: req.Password,
		CPF:      req.CPF,
		RG:       req.RG,
		Role:     req.Role,
	})
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// GetProfile returns the caller's own account.
func (uc *UserController) GetProfile(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	user, err := uc.userService.GetByID(c.Request.Context(), actor, actor)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// GetByID returns one account, visible to its owner or an admin.
func (uc *UserController) GetByID(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := uc.userService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// ListByRole lists accounts holding the role from the query string.
func (uc *UserController) ListByRole(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	role := models.RoleType(c.DefaultQuery("role", string(models.RoleStudent)))

	users, err := uc.userService.ListByRole(c.Request.Context(), actor, role)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(users))
}

// UpdateProfile updates the caller's mutable profile fields.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), actor, actor, services.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		RG:    req.RG,
	})
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// ChangePassword replaces the caller's password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := uc.userService.ChangePassword(c.Request.Context(), actor, actor, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Password changed"))
}

// Deactivate soft-deletes an account. Admin only.
func (uc *UserController) Deactivate(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := uc.userService.Deactivate(c.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("User deactivated"))
}
