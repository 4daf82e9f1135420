package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// GradeController handles evaluation and grade endpoints
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// CreateEvaluation registers an evaluation for a class.
func (gc *GradeController) CreateEvaluation(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateEvaluationRequest
	if !bindJSON(c, &req) {
		return
	}

	evaluation, err := gc.gradeService.CreateEvaluation(c.Request.Context(), actor, services.CreateEvaluationInput{
		ClassID:      req.ClassID,
		DisciplineID: req.DisciplineID,
		Name:         req.Name,
		Date:         req.Date,
		Kind:         req.Kind,
		TeacherID:    req.TeacherID,
	})
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(evaluation))
}

// DeleteEvaluation removes an evaluation and its grades.
func (gc *GradeController) DeleteEvaluation(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := gc.gradeService.DeleteEvaluation(c.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Evaluation deleted"))
}

// ListEvaluationsByClass lists a class's evaluations.
func (gc *GradeController) ListEvaluationsByClass(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	evaluations, err := gc.gradeService.GetEvaluationsByClass(c.Request.Context(), actor, classID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(evaluations))
}

// RecordGrade records a student's result for an evaluation.
func (gc *GradeController) RecordGrade(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := gc.gradeService.RecordGrade(c.Request.Context(), actor, evaluationID, req.StudentID, req.NumericValue, req.Concept)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(grade))
}

// AmendGrade replaces a recorded grade's value.
func (gc *GradeController) AmendGrade(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	gradeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AmendGradeRequest
	if !bindJSON(c, &req) {
		return
	}

	grade, err := gc.gradeService.AmendGrade(c.Request.Context(), actor, gradeID, req.NumericValue, req.Concept)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(grade))
}

// ListGradesByEvaluation lists an evaluation's grades.
func (gc *GradeController) ListGradesByEvaluation(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	evaluationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	grades, err := gc.gradeService.GetGradesByEvaluation(c.Request.Context(), actor, evaluationID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}

// ListGradesByStudent lists a student's grades.
func (gc *GradeController) ListGradesByStudent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	grades, err := gc.gradeService.GetGradesByStudent(c.Request.Context(), actor, studentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(grades))
}
