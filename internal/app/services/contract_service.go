package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/email"
	"github.com/edaraujo/secretaria/internal/pkg/filestorage"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
	"github.com/edaraujo/secretaria/internal/pkg/render"
)

// ContractStore is the slice of the contract repository the service uses.
type ContractStore interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id int64) (*models.Contract, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Contract, error)
	Accept(ctx context.Context, id int64, acceptedAt time.Time) error
	UpdateArtifactRef(ctx context.Context, id int64, artifactRef string) error
	FindOwnersNeedingRenewal(ctx context.Context, semester, year int) ([]int64, error)
}

// ContractTemplateStore is the template catalog slice the service uses.
type ContractTemplateStore interface {
	GetByID(ctx context.Context, id int64) (*models.ContractTemplate, error)
	GetActive(ctx context.Context) (*models.ContractTemplate, error)
}

// ContractEnrollmentStore resolves the owner's open enrollment when
// placeholder values are recovered from the entity graph.
type ContractEnrollmentStore interface {
	GetOpenByStudent(ctx context.Context, studentID int64) (*models.Enrollment, error)
}

// ContractCourseStore resolves course details for placeholder values.
type ContractCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// ContractService owns the contract lifecycle per (owner, semester, year):
// absent -> awaiting-signature -> accepted, with acceptance one-way. The
// rendered artifact is immutable except through RegenerateArtifact, which
// never touches acceptance.
type ContractService struct {
	contracts   ContractStore
	templates   ContractTemplateStore
	enrollments ContractEnrollmentStore
	courses     ContractCourseStore
	storage     filestorage.ArtifactStorage
	authz       Authorizer
	notifier    email.Notifier
}

// NewContractService creates a new contract service
func NewContractService(
	contracts ContractStore,
	templates ContractTemplateStore,
	enrollments ContractEnrollmentStore,
	courses ContractCourseStore,
	storage filestorage.ArtifactStorage,
	authz Authorizer,
	notifier email.Notifier,
) *ContractService {
	return &ContractService{
		contracts:   contracts,
		templates:   templates,
		enrollments: enrollments,
		courses:     courses,
		storage:     storage,
		authz:       authz,
		notifier:    notifier,
	}
}

// Issue renders the template with the supplied placeholder values and
// persists an awaiting-signature contract. Admin only. A token without a
// value fails with ErrTemplateRender; a duplicate (owner, semester, year)
// fails with ErrConflict off the store's unique index.
func (s *ContractService) Issue(ctx context.Context, actorID, ownerID, templateID int64, semester, year int, values map[string]string) (*models.Contract, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.issue(ctx, ownerID, templateID, semester, year, values)
}

// IssueForRenewal issues a contract for the owner's current term with
// placeholder values recovered from the entity graph. Called by the
// scheduled renewal job; inherits issue's conflict-as-error semantics, so
// racing an interactive issue is safe.
func (s *ContractService) IssueForRenewal(ctx context.Context, ownerID int64, semester, year int) (*models.Contract, error) {
	template, err := s.templates.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	values, err := s.placeholderValues(ctx, ownerID, semester, year)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, ownerID, template.ID, semester, year, values)
}

func (s *ContractService) issue(ctx context.Context, ownerID, templateID int64, semester, year int, values map[string]string) (*models.Contract, error) {
	if semester != 1 && semester != 2 {
		return nil, apperrors.NewValidationError("semester must be 1 or 2")
	}
	if year < 1900 {
		return nil, apperrors.NewValidationError("invalid year")
	}

	owner, err := s.authz.ResolveUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, apperrors.NewValidationError("contract template is not active")
	}

	rendered, err := render.Execute(template.Body, values)
	if err != nil {
		return nil, apperrors.NewTemplateRenderError(err.Error())
	}

	ref, err := s.storage.Put([]byte(rendered), "contracts", ".txt")
	if err != nil {
		return nil, fmt.Errorf("error storing contract artifact: %w", err)
	}

	contract := &models.Contract{
		OwnerID:     ownerID,
		TemplateID:  templateID,
		ArtifactRef: ref,
		Semester:    semester,
		Year:        year,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		// The row was never created; drop the orphaned artifact.
		if delErr := s.storage.Delete(ref); delErr != nil {
			logger.Warn().Err(delErr).Str("ref", ref).Msg("Failed to remove orphaned contract artifact")
		}
		return nil, err
	}

	logger.Info().
		Int64("contractID", contract.ID).
		Int64("ownerID", ownerID).
		Int("semester", semester).
		Int("year", year).
		Msg("Contract issued")

	if err := s.notifier.SendContractIssued(owner.Email, owner.Name, semester, year); err != nil {
		logger.Error().Err(err).Int64("contractID", contract.ID).Msg("Failed to send contract notification")
	}

	return contract, nil
}

// Accept records the owner's signature. The store's accepted_at IS NULL
// guard keeps acceptance one-way: re-acceptance fails with
// ErrInvalidTransition and the original timestamp stands. A signer who is
// not the owner also gets ErrInvalidTransition.
func (s *ContractService) Accept(ctx context.Context, signerID, contractID int64) (*models.Contract, error) {
	signer, err := s.authz.ResolveUser(ctx, signerID)
	if err != nil {
		return nil, err
	}

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.OwnerID != signer.ID {
		return nil, apperrors.NewInvalidTransitionError("only the contract owner may accept it")
	}

	if err := s.contracts.Accept(ctx, contractID, time.Now()); err != nil {
		return nil, err
	}

	logger.Info().Int64("contractID", contractID).Int64("signerID", signerID).Msg("Contract accepted")
	return s.contracts.GetByID(ctx, contractID)
}

// RegenerateArtifact recomputes the artifact from the stored template and
// the live entity graph, overwriting only the artifact reference. Admin
// repair operation for missing or corrupt artifacts; a required upstream
// field that is absent fails with ErrIncompleteData, never a placeholder
// default.
func (s *ContractService) RegenerateArtifact(ctx context.Context, actorID, contractID int64) (*models.Contract, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	template, err := s.templates.GetByID(ctx, contract.TemplateID)
	if err != nil {
		return nil, err
	}

	values, err := s.placeholderValues(ctx, contract.OwnerID, contract.Semester, contract.Year)
	if err != nil {
		return nil, err
	}

	rendered, err := render.Execute(template.Body, values)
	if err != nil {
		return nil, apperrors.NewTemplateRenderError(err.Error())
	}

	ref, err := s.storage.Put([]byte(rendered), "contracts", ".txt")
	if err != nil {
		return nil, fmt.Errorf("error storing regenerated artifact: %w", err)
	}

	if err := s.contracts.UpdateArtifactRef(ctx, contractID, ref); err != nil {
		return nil, err
	}

	logger.Info().Int64("contractID", contractID).Str("ref", ref).Msg("Contract artifact regenerated")
	return s.contracts.GetByID(ctx, contractID)
}

// placeholderValues recovers the standard contract placeholders from the
// live entity graph at call time. Any required field that is absent fails
// with ErrIncompleteData.
func (s *ContractService) placeholderValues(ctx context.Context, ownerID int64, semester, year int) (map[string]string, error) {
	owner, err := s.authz.ResolveUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Name == "" {
		return nil, apperrors.NewIncompleteDataError("owner has no name")
	}
	if owner.CPF == "" {
		return nil, apperrors.NewIncompleteDataError("owner has no CPF")
	}

	enrollment, err := s.enrollments.GetOpenByStudent(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewIncompleteDataError("owner has no open enrollment")
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, apperrors.NewIncompleteDataError("enrollment course not found")
	}
	if course.Name == "" {
		return nil, apperrors.NewIncompleteDataError("course has no name")
	}

	return map[string]string{
		"name":     owner.Name,
		"cpf":      owner.CPF,
		"course":   course.Name,
		"semester": strconv.Itoa(semester),
		"year":     strconv.Itoa(year),
	}, nil
}

// GetByID retrieves a contract, visible to its owner or an admin.
func (s *ContractService) GetByID(ctx context.Context, actorID, contractID int64) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, contract.OwnerID); err != nil {
		return nil, err
	}
	return contract, nil
}

// GetArtifact retrieves a contract's rendered artifact bytes, visible to
// its owner or an admin.
func (s *ContractService) GetArtifact(ctx context.Context, actorID, contractID int64) ([]byte, error) {
	contract, err := s.GetByID(ctx, actorID, contractID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Get(contract.ArtifactRef)
	if err != nil {
		return nil, fmt.Errorf("error reading contract artifact: %w", err)
	}
	return data, nil
}

// ListByOwner retrieves an owner's contracts, visible to the owner or an
// admin.
func (s *ContractService) ListByOwner(ctx context.Context, actorID, ownerID int64) ([]*models.Contract, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, ownerID); err != nil {
		return nil, err
	}
	return s.contracts.GetByOwner(ctx, ownerID)
}

// FindOwnersNeedingRenewal lists users holding an active enrollment without
// a contract for the term. Used by the scheduled renewal job.
func (s *ContractService) FindOwnersNeedingRenewal(ctx context.Context, semester, year int) ([]int64, error) {
	return s.contracts.FindOwnersNeedingRenewal(ctx, semester, year)
}
