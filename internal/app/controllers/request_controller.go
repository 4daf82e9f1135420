package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// RequestController handles administrative request endpoints
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

// Open files a new request.
func (rc *RequestController) Open(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.OpenRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := rc.requestService.Open(c.Request.Context(), actor, req.StudentID, req.RequestTypeID, req.Description)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(request))
}

// Review records a terminal decision on a pending request.
func (rc *RequestController) Review(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := rc.requestService.Review(c.Request.Context(), actor, id, req.Decision, req.Notes)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// GetByID retrieves one request.
func (rc *RequestController) GetByID(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := rc.requestService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// ListByStudent lists a student's requests.
func (rc *RequestController) ListByStudent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	requests, err := rc.requestService.ListByStudent(c.Request.Context(), actor, studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// ListPending lists the review queue.
func (rc *RequestController) ListPending(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	requests, err := rc.requestService.ListPending(c.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

// CreateType adds a request type to the catalog.
func (rc *RequestController) CreateType(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateRequestTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	requestType, err := rc.requestService.CreateType(c.Request.Context(), actor, req.Name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(requestType))
}

// ListTypes lists the request type catalog.
func (rc *RequestController) ListTypes(c *gin.Context) {
	types, err := rc.requestService.ListTypes(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(types))
}
