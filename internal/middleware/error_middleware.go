package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// HandleAPIError maps workflow errors to HTTP responses. Controllers call
// this for every service error so the taxonomy-to-status mapping lives in
// one place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, err.Error())))
	case errors.Is(err, apperrors.ErrRestrictedDelete):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeRestrictedDelete, err.Error())))
	case errors.Is(err, apperrors.ErrTemplateRender):
		c.JSON(422, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTemplateRender, err.Error())))
	case errors.Is(err, apperrors.ErrIncompleteData):
		c.JSON(422, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeIncompleteData, err.Error())))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
