package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// CatalogController handles course, discipline, class and catalog
// maintenance endpoints
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// --- Courses ---

// CreateCourse registers a course.
func (cc *CatalogController) CreateCourse(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := cc.catalogService.CreateCourse(c.Request.Context(), actor, req.Name, req.Description)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// GetCourse retrieves one course.
func (cc *CatalogController) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := cc.catalogService.GetCourse(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// ListCourses lists live courses.
func (cc *CatalogController) ListCourses(c *gin.Context) {
	courses, err := cc.catalogService.ListCourses(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// UpdateCourse updates a course's descriptive fields.
func (cc *CatalogController) UpdateCourse(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course := &models.Course{ID: id, Name: req.Name, Description: req.Description}
	if err := cc.catalogService.UpdateCourse(c.Request.Context(), actor, course); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// DeleteCourse soft-deletes a course.
func (cc *CatalogController) DeleteCourse(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.catalogService.DeleteCourse(c.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted"))
}

// LinkDiscipline attaches a discipline to a course grid slot.
func (cc *CatalogController) LinkDiscipline(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.LinkDisciplineRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := cc.catalogService.LinkDiscipline(c.Request.Context(), actor, courseID, req.DisciplineID, req.Semester); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewMessageResponse("Discipline linked"))
}

// UnlinkDiscipline removes a discipline from a course grid slot. The
// semester comes as a query parameter since DELETE carries no body.
func (cc *CatalogController) UnlinkDiscipline(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	disciplineID, ok := pathID(c, "disciplineId")
	if !ok {
		return
	}
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil || semester < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid semester").
			WithField("semester").
			WithDetails("semester must be a positive number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := cc.catalogService.UnlinkDiscipline(c.Request.Context(), actor, courseID, disciplineID, semester); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Discipline unlinked"))
}

// ListCourseDisciplines lists a course's discipline grid.
func (cc *CatalogController) ListCourseDisciplines(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	links, err := cc.catalogService.GetCourseDisciplines(c.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(links))
}

// --- Disciplines ---

// CreateDiscipline registers a discipline.
func (cc *CatalogController) CreateDiscipline(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateDisciplineRequest
	if !bindJSON(c, &req) {
		return
	}

	discipline, err := cc.catalogService.CreateDiscipline(c.Request.Context(), actor, req.Name, req.Workload)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(discipline))
}

// ListDisciplines lists live disciplines.
func (cc *CatalogController) ListDisciplines(c *gin.Context) {
	disciplines, err := cc.catalogService.ListDisciplines(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(disciplines))
}

// UpdateDiscipline updates a discipline's name and workload.
func (cc *CatalogController) UpdateDiscipline(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateDisciplineRequest
	if !bindJSON(c, &req) {
		return
	}

	discipline := &models.Discipline{ID: id, Name: req.Name, Workload: req.Workload}
	if err := cc.catalogService.UpdateDiscipline(c.Request.Context(), actor, discipline); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(discipline))
}

// DeleteDiscipline soft-deletes a discipline.
func (cc *CatalogController) DeleteDiscipline(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.catalogService.DeleteDiscipline(c.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Discipline deleted"))
}

// --- Classes ---

// CreateClass registers a class.
func (cc *CatalogController) CreateClass(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateClassRequest
	if !bindJSON(c, &req) {
		return
	}

	class, err := cc.catalogService.CreateClass(c.Request.Context(), actor, req.CourseID, req.Name, req.Semester, req.Year)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(class))
}

// GetClass retrieves one class.
func (cc *CatalogController) GetClass(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	class, err := cc.catalogService.GetClass(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(class))
}

// ListClassesByTeacher lists the classes a teacher is assigned to.
func (cc *CatalogController) ListClassesByTeacher(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	teacherID, ok := pathID(c, "teacherId")
	if !ok {
		return
	}

	classes, err := cc.catalogService.ListClassesByTeacher(c.Request.Context(), actor, teacherID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(classes))
}

// ListClasses lists live classes.
func (cc *CatalogController) ListClasses(c *gin.Context) {
	classes, err := cc.catalogService.ListClasses(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(classes))
}

// AssignTeacher binds a teacher to a class discipline.
func (cc *CatalogController) AssignTeacher(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignTeacherRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := cc.catalogService.AssignTeacher(c.Request.Context(), actor, classID, req.TeacherID, req.DisciplineID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewMessageResponse("Teacher assigned"))
}

// UnassignTeacher removes a teacher from a class discipline. The
// discipline comes as a query parameter since DELETE carries no body.
func (cc *CatalogController) UnassignTeacher(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}
	teacherID, ok := pathID(c, "teacherId")
	if !ok {
		return
	}
	disciplineID, err := strconv.ParseInt(c.Query("disciplineId"), 10, 64)
	if err != nil || disciplineID < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid disciplineId").
			WithField("disciplineId").
			WithDetails("disciplineId must be a positive number")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := cc.catalogService.UnassignTeacher(c.Request.Context(), actor, classID, teacherID, disciplineID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Teacher unassigned"))
}

// AddStudent places a student on a class roster.
func (cc *CatalogController) AddStudent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := cc.catalogService.AddStudentToClass(c.Request.Context(), actor, classID, req.StudentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewMessageResponse("Student added to class"))
}

// RemoveStudent drops a student from a class roster.
func (cc *CatalogController) RemoveStudent(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}

	if err := cc.catalogService.RemoveStudentFromClass(c.Request.Context(), actor, classID, studentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Student removed from class"))
}

// GetRoster lists a class's students.
func (cc *CatalogController) GetRoster(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	roster, err := cc.catalogService.GetRoster(c.Request.Context(), actor, classID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(roster))
}

// --- Document types ---

// CreateDocumentType registers a document type.
func (cc *CatalogController) CreateDocumentType(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	docType, err := cc.catalogService.CreateDocumentType(c.Request.Context(), actor, req.Name, req.AppliesTo, req.Required)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(docType))
}

// ListDocumentTypes lists live document types.
func (cc *CatalogController) ListDocumentTypes(c *gin.Context) {
	types, err := cc.catalogService.ListDocumentTypes(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(types))
}

// UpdateDocumentType updates a document type.
func (cc *CatalogController) UpdateDocumentType(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateDocumentTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	docType := &models.DocumentType{ID: id, Name: req.Name, AppliesTo: req.AppliesTo, Required: req.Required}
	if err := cc.catalogService.UpdateDocumentType(c.Request.Context(), actor, docType); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(docType))
}

// DeleteDocumentType soft-deletes a document type.
func (cc *CatalogController) DeleteDocumentType(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.catalogService.DeleteDocumentType(c.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Document type deleted"))
}

// --- Contract templates ---

// CreateContractTemplate registers a contract template.
func (cc *CatalogController) CreateContractTemplate(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateContractTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := cc.catalogService.CreateContractTemplate(c.Request.Context(), actor, req.Name, req.Body, req.Active)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(tpl))
}

// GetContractTemplate retrieves one template.
func (cc *CatalogController) GetContractTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := cc.catalogService.GetContractTemplate(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(tpl))
}

// ListContractTemplates lists templates.
func (cc *CatalogController) ListContractTemplates(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	templates, err := cc.catalogService.ListContractTemplates(c.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(templates))
}

// UpdateContractTemplate updates a template.
func (cc *CatalogController) UpdateContractTemplate(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateContractTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	tpl := &models.ContractTemplate{ID: id, Name: req.Name, Body: req.Body, Active: req.Active}
	if err := cc.catalogService.UpdateContractTemplate(c.Request.Context(), actor, tpl); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(tpl))
}
