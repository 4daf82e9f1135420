// Package controllers translates HTTP requests into service calls. Every
// handler resolves the caller from the JWT context and passes it down; the
// services re-check authorization themselves.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// actorID reads the authenticated caller from the context, aborting with
// 401 when the auth middleware did not run.
func actorID(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// pathID parses a numeric path parameter, responding 400 on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithField(name).
			WithDetails(name + " must be a positive number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, responding 400 on malformed input.
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}
