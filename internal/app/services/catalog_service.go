package services

import (
	"context"
	"strings"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
	"github.com/edaraujo/secretaria/internal/pkg/render"
)

// CourseStore is the slice of the course repository the service uses.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	SoftDelete(ctx context.Context, id int64) error
	AddDiscipline(ctx context.Context, link *models.CourseDiscipline) error
	RemoveDiscipline(ctx context.Context, courseID, disciplineID int64, semester int) error
	GetDisciplines(ctx context.Context, courseID int64) ([]*models.CourseDiscipline, error)
}

// DisciplineStore is the slice of the discipline repository the service
// uses.
type DisciplineStore interface {
	Create(ctx context.Context, discipline *models.Discipline) error
	GetByID(ctx context.Context, id int64) (*models.Discipline, error)
	GetAll(ctx context.Context) ([]*models.Discipline, error)
	Update(ctx context.Context, discipline *models.Discipline) error
	SoftDelete(ctx context.Context, id int64) error
}

// ClassStore is the slice of the class repository the service uses.
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	GetAll(ctx context.Context) ([]*models.Class, error)
	GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error)
	AssignTeacher(ctx context.Context, assignment *models.ClassTeacher) error
	UnassignTeacher(ctx context.Context, classID, teacherID, disciplineID int64) error
	AddStudent(ctx context.Context, classID, studentID int64) error
	RemoveStudent(ctx context.Context, classID, studentID int64) error
	GetRoster(ctx context.Context, classID int64) ([]*models.User, error)
}

// DocumentTypeCatalogStore is the slice of the document type repository the
// service uses.
type DocumentTypeCatalogStore interface {
	Create(ctx context.Context, dt *models.DocumentType) error
	GetByID(ctx context.Context, id int64) (*models.DocumentType, error)
	GetAll(ctx context.Context) ([]*models.DocumentType, error)
	Update(ctx context.Context, dt *models.DocumentType) error
	SoftDelete(ctx context.Context, id int64) error
}

// TemplateCatalogStore is the slice of the contract template repository the
// service uses.
type TemplateCatalogStore interface {
	Create(ctx context.Context, tpl *models.ContractTemplate) error
	GetByID(ctx context.Context, id int64) (*models.ContractTemplate, error)
	GetAll(ctx context.Context) ([]*models.ContractTemplate, error)
	Update(ctx context.Context, tpl *models.ContractTemplate) error
}

// CatalogService manages the reference data the lifecycles hang off:
// courses, disciplines, classes, document types and contract templates.
// All writes are admin work; deletions are restricted while live rows
// still reference the entry.
type CatalogService struct {
	courses       CourseStore
	disciplines   DisciplineStore
	classes       ClassStore
	documentTypes DocumentTypeCatalogStore
	templates     TemplateCatalogStore
	authz         Authorizer
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	courses CourseStore,
	disciplines DisciplineStore,
	classes ClassStore,
	documentTypes DocumentTypeCatalogStore,
	templates TemplateCatalogStore,
	authz Authorizer,
) *CatalogService {
	return &CatalogService{
		courses:       courses,
		disciplines:   disciplines,
		classes:       classes,
		documentTypes: documentTypes,
		templates:     templates,
		authz:         authz,
	}
}

// CreateCourse registers a course. Admin only.
func (s *CatalogService) CreateCourse(ctx context.Context, actorID int64, name string, description *string) (*models.Course, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("course name is required")
	}

	course := &models.Course{Name: name, Description: description}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	logger.Info().Int64("courseID", course.ID).Str("name", name).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course.
func (s *CatalogService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListCourses lists live courses.
func (s *CatalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courses.GetAll(ctx)
}

// UpdateCourse updates a course's fields. Admin only.
func (s *CatalogService) UpdateCourse(ctx context.Context, actorID int64, course *models.Course) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if strings.TrimSpace(course.Name) == "" {
		return apperrors.NewValidationError("course name is required")
	}
	return s.courses.Update(ctx, course)
}

// DeleteCourse soft-deletes a course. Admin only. A course with enrollments
// fails with ErrRestrictedDelete from the store.
func (s *CatalogService) DeleteCourse(ctx context.Context, actorID, id int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.courses.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// LinkDiscipline attaches a discipline to a course at a semester. Admin
// only. Linking the same triple twice fails with ErrConflict.
func (s *CatalogService) LinkDiscipline(ctx context.Context, actorID, courseID, disciplineID int64, semester int) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if semester <= 0 {
		return apperrors.NewValidationError("semester must be positive")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	if _, err := s.disciplines.GetByID(ctx, disciplineID); err != nil {
		return err
	}
	return s.courses.AddDiscipline(ctx, &models.CourseDiscipline{
		CourseID:     courseID,
		DisciplineID: disciplineID,
		Semester:     semester,
	})
}

// UnlinkDiscipline detaches a discipline from a course. Admin only.
func (s *CatalogService) UnlinkDiscipline(ctx context.Context, actorID, courseID, disciplineID int64, semester int) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.courses.RemoveDiscipline(ctx, courseID, disciplineID, semester)
}

// GetCourseDisciplines lists a course's discipline links.
func (s *CatalogService) GetCourseDisciplines(ctx context.Context, courseID int64) ([]*models.CourseDiscipline, error) {
	return s.courses.GetDisciplines(ctx, courseID)
}

// CreateDiscipline registers a discipline. Admin only.
func (s *CatalogService) CreateDiscipline(ctx context.Context, actorID int64, name string, workload int) (*models.Discipline, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("discipline name is required")
	}
	if workload <= 0 {
		return nil, apperrors.NewValidationError("discipline workload must be positive")
	}

	discipline := &models.Discipline{Name: name, Workload: workload}
	if err := s.disciplines.Create(ctx, discipline); err != nil {
		return nil, err
	}
	return discipline, nil
}

// ListDisciplines lists live disciplines.
func (s *CatalogService) ListDisciplines(ctx context.Context) ([]*models.Discipline, error) {
	return s.disciplines.GetAll(ctx)
}

// UpdateDiscipline updates a discipline's fields. Admin only.
func (s *CatalogService) UpdateDiscipline(ctx context.Context, actorID int64, discipline *models.Discipline) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.disciplines.Update(ctx, discipline)
}

// DeleteDiscipline soft-deletes a discipline. Admin only. A discipline
// still linked to a course fails with ErrRestrictedDelete from the store.
func (s *CatalogService) DeleteDiscipline(ctx context.Context, actorID, id int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.disciplines.SoftDelete(ctx, id)
}

// CreateClass registers a class for a course and term. Admin only.
func (s *CatalogService) CreateClass(ctx context.Context, actorID, courseID int64, name string, semester, year int) (*models.Class, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("class name is required")
	}
	if semester != 1 && semester != 2 {
		return nil, apperrors.NewValidationError("semester must be 1 or 2")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	class := &models.Class{CourseID: courseID, Name: name, Semester: semester, Year: year}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	logger.Info().Int64("classID", class.ID).Int64("courseID", courseID).Msg("Class created")
	return class, nil
}

// GetClass retrieves a class.
func (s *CatalogService) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	return s.classes.GetByID(ctx, id)
}

// ListClasses lists live classes.
func (s *CatalogService) ListClasses(ctx context.Context) ([]*models.Class, error) {
	return s.classes.GetAll(ctx)
}

// ListClassesByTeacher lists the classes a teacher is assigned to, visible
// to the teacher or an admin.
func (s *CatalogService) ListClassesByTeacher(ctx context.Context, actorID, teacherID int64) ([]*models.Class, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, teacherID); err != nil {
		return nil, err
	}
	return s.classes.GetByTeacher(ctx, teacherID)
}

// AssignTeacher binds a teacher to a class for one discipline. Admin only.
func (s *CatalogService) AssignTeacher(ctx context.Context, actorID, classID, teacherID, disciplineID int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	teacher, err := s.authz.ResolveUser(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher.Role != models.RoleTeacher {
		return apperrors.NewValidationError("assignee must be a teacher")
	}
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return err
	}
	if _, err := s.disciplines.GetByID(ctx, disciplineID); err != nil {
		return err
	}
	return s.classes.AssignTeacher(ctx, &models.ClassTeacher{
		ClassID:      classID,
		TeacherID:    teacherID,
		DisciplineID: disciplineID,
	})
}

// UnassignTeacher removes a teacher's discipline assignment. Admin only.
func (s *CatalogService) UnassignTeacher(ctx context.Context, actorID, classID, teacherID, disciplineID int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.classes.UnassignTeacher(ctx, classID, teacherID, disciplineID)
}

// AddStudentToClass places a student on a class roster. Admin only.
func (s *CatalogService) AddStudentToClass(ctx context.Context, actorID, classID, studentID int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	student, err := s.authz.ResolveUser(ctx, studentID)
	if err != nil {
		return err
	}
	if student.Role != models.RoleStudent {
		return apperrors.NewValidationError("roster entries must be students")
	}
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return err
	}
	return s.classes.AddStudent(ctx, classID, studentID)
}

// RemoveStudentFromClass removes a student from a class roster. Admin only.
func (s *CatalogService) RemoveStudentFromClass(ctx context.Context, actorID, classID, studentID int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.classes.RemoveStudent(ctx, classID, studentID)
}

// GetRoster lists a class's students, visible to staff.
func (s *CatalogService) GetRoster(ctx context.Context, actorID, classID int64) ([]*models.User, error) {
	actor, err := s.authz.ResolveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleStudent {
		return nil, apperrors.NewForbiddenError("students cannot view class rosters")
	}
	return s.classes.GetRoster(ctx, classID)
}

// CreateDocumentType registers a document type. Admin only.
func (s *CatalogService) CreateDocumentType(ctx context.Context, actorID int64, name string, appliesTo models.AppliesTo, required bool) (*models.DocumentType, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("document type name is required")
	}
	if appliesTo != models.AppliesToStudent && appliesTo != models.AppliesToTeacher && appliesTo != models.AppliesToBoth {
		return nil, apperrors.NewValidationError("invalid applies-to value")
	}

	dt := &models.DocumentType{Name: name, AppliesTo: appliesTo, Required: required}
	if err := s.documentTypes.Create(ctx, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

// ListDocumentTypes lists live document types.
func (s *CatalogService) ListDocumentTypes(ctx context.Context) ([]*models.DocumentType, error) {
	return s.documentTypes.GetAll(ctx)
}

// UpdateDocumentType updates a document type. Admin only.
func (s *CatalogService) UpdateDocumentType(ctx context.Context, actorID int64, dt *models.DocumentType) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.documentTypes.Update(ctx, dt)
}

// DeleteDocumentType soft-deletes a document type. Admin only. A type with
// submitted documents fails with ErrRestrictedDelete from the store.
func (s *CatalogService) DeleteDocumentType(ctx context.Context, actorID, id int64) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.documentTypes.SoftDelete(ctx, id)
}

// CreateContractTemplate registers a contract template. Admin only. The
// body must parse: an empty body or malformed placeholder syntax is
// rejected here rather than at issue time.
func (s *CatalogService) CreateContractTemplate(ctx context.Context, actorID int64, name, body string, active bool) (*models.ContractTemplate, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("template name is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("template body is required")
	}
	if _, err := render.Tokens(body); err != nil {
		return nil, apperrors.NewValidationError("template body is malformed: " + err.Error())
	}

	tpl := &models.ContractTemplate{Name: name, Body: body, Active: active}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	logger.Info().Int64("templateID", tpl.ID).Str("name", name).Msg("Contract template created")
	return tpl, nil
}

// GetContractTemplate retrieves a template.
func (s *CatalogService) GetContractTemplate(ctx context.Context, id int64) (*models.ContractTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

// ListContractTemplates lists all templates. Admin only.
func (s *CatalogService) ListContractTemplates(ctx context.Context, actorID int64) ([]*models.ContractTemplate, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.templates.GetAll(ctx)
}

// UpdateContractTemplate updates a template. Admin only. Contracts already
// issued keep their rendered artifacts; template edits only affect future
// issues.
func (s *CatalogService) UpdateContractTemplate(ctx context.Context, actorID int64, tpl *models.ContractTemplate) error {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if strings.TrimSpace(tpl.Body) == "" {
		return apperrors.NewValidationError("template body is required")
	}
	if _, err := render.Tokens(tpl.Body); err != nil {
		return apperrors.NewValidationError("template body is malformed: " + err.Error())
	}
	return s.templates.Update(ctx, tpl)
}
