package services

import (
	"context"
	"strings"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/email"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// RequestStore is the slice of the request repository the service uses.
type RequestStore interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	GetByStudent(ctx context.Context, studentID int64) ([]*models.Request, error)
	GetPending(ctx context.Context) ([]*models.Request, error)
	Review(ctx context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error
	CreateType(ctx context.Context, requestType *models.RequestType) error
	GetTypeByID(ctx context.Context, id int64) (*models.RequestType, error)
	GetAllTypes(ctx context.Context) ([]*models.RequestType, error)
}

// RequestService handles administrative requests opened by students and
// reviewed by staff. Reviews share the document workflow's one-shot
// semantics: terminal decisions only, reviewer attribution recorded with
// the decision.
type RequestService struct {
	requests RequestStore
	authz    Authorizer
	notifier email.Notifier
}

// NewRequestService creates a new request service
func NewRequestService(requests RequestStore, authz Authorizer, notifier email.Notifier) *RequestService {
	return &RequestService{
		requests: requests,
		authz:    authz,
		notifier: notifier,
	}
}

// Open files a new request for the student. Students open their own
// requests; an admin may open one on a student's behalf.
func (s *RequestService) Open(ctx context.Context, actorID, studentID, requestTypeID int64, description string) (*models.Request, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, studentID); err != nil {
		return nil, err
	}

	student, err := s.authz.ResolveUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewValidationError("requests can only be opened for students")
	}

	if _, err := s.requests.GetTypeByID(ctx, requestTypeID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.NewValidationError("request description is required")
	}

	request := &models.Request{
		StudentID:     studentID,
		RequestTypeID: requestTypeID,
		Description:   strings.TrimSpace(description),
		Status:        models.ReviewPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("requestID", request.ID).
		Int64("studentID", studentID).
		Msg("Request opened")
	return request, nil
}

// Review records an admin's decision on a pending request. Only terminal
// decisions are accepted; a request already decided fails with
// ErrInvalidTransition and keeps its original reviewer and timestamp.
func (s *RequestService) Review(ctx context.Context, actorID, requestID int64, decision models.ReviewStatus, notes *string) (*models.Request, error) {
	reviewer, err := s.authz.RequireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !decision.Terminal() {
		return nil, apperrors.NewValidationError("review decision must be APPROVED or REJECTED")
	}

	if err := s.requests.Review(ctx, requestID, decision, reviewer.ID, time.Now(), notes); err != nil {
		return nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("requestID", requestID).
		Int64("reviewerID", reviewer.ID).
		Str("decision", string(decision)).
		Msg("Request reviewed")

	if student, err := s.authz.ResolveUser(ctx, request.StudentID); err == nil {
		if err := s.notifier.SendRequestReviewed(student.Email, student.Name, request.Description, string(decision)); err != nil {
			logger.Error().Err(err).Int64("requestID", requestID).Msg("Failed to send request review notification")
		}
	}

	return request, nil
}

// GetByID retrieves a request, visible to its student or an admin.
func (s *RequestService) GetByID(ctx context.Context, actorID, requestID int64) (*models.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, request.StudentID); err != nil {
		return nil, err
	}
	return request, nil
}

// ListByStudent retrieves a student's requests, visible to the student or
// an admin.
func (s *RequestService) ListByStudent(ctx context.Context, actorID, studentID int64) ([]*models.Request, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, studentID); err != nil {
		return nil, err
	}
	return s.requests.GetByStudent(ctx, studentID)
}

// ListPending retrieves the review queue. Admin only.
func (s *RequestService) ListPending(ctx context.Context, actorID int64) ([]*models.Request, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.requests.GetPending(ctx)
}

// CreateType registers a request type in the catalog. Admin only.
func (s *RequestService) CreateType(ctx context.Context, actorID int64, name string) (*models.RequestType, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("request type name is required")
	}

	requestType := &models.RequestType{Name: strings.TrimSpace(name)}
	if err := s.requests.CreateType(ctx, requestType); err != nil {
		return nil, err
	}
	return requestType, nil
}

// ListTypes lists the request type catalog.
func (s *RequestService) ListTypes(ctx context.Context) ([]*models.RequestType, error) {
	return s.requests.GetAllTypes(ctx)
}
