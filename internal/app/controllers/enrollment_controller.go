package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// EnrollmentController handles enrollment lifecycle endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Create opens a PENDING enrollment.
func (ec *EnrollmentController) Create(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}

	enrollment, err := ec.enrollmentService.Create(c.Request.Context(), actor, req.StudentID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// Activate moves a PENDING enrollment to ACTIVE.
func (ec *EnrollmentController) Activate(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	enrollment, err := ec.enrollmentService.Activate(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// Cancel moves an open enrollment to CANCELLED with a reason.
func (ec *EnrollmentController) Cancel(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CancelEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}

	enrollment, err := ec.enrollmentService.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// GetByID retrieves one enrollment.
func (ec *EnrollmentController) GetByID(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	enrollment, err := ec.enrollmentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// ListByStudent retrieves a student's enrollment history.
func (ec *EnrollmentController) ListByStudent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	enrollments, err := ec.enrollmentService.ListByStudent(c.Request.Context(), actor, studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(enrollments))
}
