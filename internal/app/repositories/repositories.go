package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency wiring.
type Repositories struct {
	User             *UserRepository
	Course           *CourseRepository
	Discipline       *DisciplineRepository
	Class            *ClassRepository
	Enrollment       *EnrollmentRepository
	Document         *DocumentRepository
	DocumentType     *DocumentTypeRepository
	Contract         *ContractRepository
	ContractTemplate *ContractTemplateRepository
	Evaluation       *EvaluationRepository
	Request          *RequestRepository
}

// NewRepositories creates all repositories sharing one connection pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Course:           NewCourseRepository(db),
		Discipline:       NewDisciplineRepository(db),
		Class:            NewClassRepository(db),
		Enrollment:       NewEnrollmentRepository(db),
		Document:         NewDocumentRepository(db),
		DocumentType:     NewDocumentTypeRepository(db),
		Contract:         NewContractRepository(db),
		ContractTemplate: NewContractTemplateRepository(db),
		Evaluation:       NewEvaluationRepository(db),
		Request:          NewRequestRepository(db),
	}
}
