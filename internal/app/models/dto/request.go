package dto

import (
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
)

// --- Auth ---

// LoginRequest represents login credentials
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

// --- Users ---

// RegisterUserRequest represents a staff-side account registration
type RegisterUserRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Login    string          `json:"login" binding:"required"`
	Password string          `json:"password" binding:"required,min=8"`
	CPF      string          `json:"cpf" binding:"required"`
	RG       string          `json:"rg"`
	Role     models.RoleType `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	RG    string `json:"rg"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// --- Catalog ---

// CreateCourseRequest represents data for a new course
type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateDisciplineRequest represents data for a new discipline
type CreateDisciplineRequest struct {
	Name     string `json:"name" binding:"required"`
	Workload int    `json:"workload" binding:"required,min=1"`
}

// LinkDisciplineRequest attaches a discipline to a course grid slot
type LinkDisciplineRequest struct {
	DisciplineID int64 `json:"disciplineId" binding:"required,min=1"`
	Semester     int   `json:"semester" binding:"required,min=1"`
}

// CreateClassRequest represents data for a new class
type CreateClassRequest struct {
	CourseID int64  `json:"courseId" binding:"required,min=1"`
	Name     string `json:"name" binding:"required"`
	Semester int    `json:"semester" binding:"required,oneof=1 2"`
	Year     int    `json:"year" binding:"required,min=1900"`
}

// AssignTeacherRequest binds a teacher to a class discipline
type AssignTeacherRequest struct {
	TeacherID    int64 `json:"teacherId" binding:"required,min=1"`
	DisciplineID int64 `json:"disciplineId" binding:"required,min=1"`
}

// AddStudentRequest places a student on a class roster
type AddStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
}

// CreateDocumentTypeRequest represents data for a new document type
type CreateDocumentTypeRequest struct {
	Name      string           `json:"name" binding:"required"`
	AppliesTo models.AppliesTo `json:"appliesTo" binding:"required,oneof=STUDENT TEACHER BOTH"`
	Required  bool             `json:"required"`
}

// CreateContractTemplateRequest represents data for a new contract template
type CreateContractTemplateRequest struct {
	Name   string `json:"name" binding:"required"`
	Body   string `json:"body" binding:"required"`
	Active bool   `json:"active"`
}

// --- Enrollments ---

// CreateEnrollmentRequest opens an enrollment for a student
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
	CourseID  int64 `json:"courseId" binding:"required,min=1"`
}

// CancelEnrollmentRequest carries the mandatory cancellation reason
type CancelEnrollmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- Documents and requests ---

// ReviewRequest records a terminal review decision
type ReviewRequest struct {
	Decision models.ReviewStatus `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Notes    *string             `json:"notes"`
}

// OpenRequestRequest files a new administrative request
type OpenRequestRequest struct {
	StudentID     int64  `json:"studentId" binding:"required,min=1"`
	RequestTypeID int64  `json:"requestTypeId" binding:"required,min=1"`
	Description   string `json:"description" binding:"required"`
}

// CreateRequestTypeRequest adds a request type to the catalog
type CreateRequestTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Contracts ---

// IssueContractRequest issues a contract from a template
type IssueContractRequest struct {
	OwnerID    int64             `json:"ownerId" binding:"required,min=1"`
	TemplateID int64             `json:"templateId" binding:"required,min=1"`
	Semester   int               `json:"semester" binding:"required,oneof=1 2"`
	Year       int               `json:"year" binding:"required,min=1900"`
	Values     map[string]string `json:"values" binding:"required"`
}

// --- Evaluations and grades ---

// CreateEvaluationRequest registers an evaluation for a class
type CreateEvaluationRequest struct {
	ClassID      int64                 `json:"classId" binding:"required,min=1"`
	DisciplineID int64                 `json:"disciplineId" binding:"required,min=1"`
	Name         string                `json:"name" binding:"required"`
	Date         time.Time             `json:"date" binding:"required"`
	Kind         models.EvaluationKind `json:"kind" binding:"required,oneof=NUMERIC CONCEPTUAL"`
	TeacherID    int64                 `json:"teacherId"`
}

// RecordGradeRequest records a student's result
type RecordGradeRequest struct {
	StudentID    int64                `json:"studentId" binding:"required,min=1"`
	NumericValue *float64             `json:"numericValue"`
	Concept      *models.GradeConcept `json:"concept"`
}

// AmendGradeRequest replaces a recorded grade's value
type AmendGradeRequest struct {
	NumericValue *float64             `json:"numericValue"`
	Concept      *models.GradeConcept `json:"concept"`
}
