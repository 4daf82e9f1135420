package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/email"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// Accepted upload types for document submissions.
var allowedDocumentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// DocumentStore is the slice of the document repository the service uses.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Document, error)
	GetPending(ctx context.Context) ([]*models.Document, error)
	Review(ctx context.Context, id int64, status models.ReviewStatus, reviewerID int64, reviewedAt time.Time, notes *string) error
	FindRequiredOutstanding(ctx context.Context, userID int64, role models.RoleType) ([]*models.DocumentType, error)
}

// DocumentTypeStore is the catalog slice the service validates against.
type DocumentTypeStore interface {
	GetByID(ctx context.Context, id int64) (*models.DocumentType, error)
}

// SubmitDocumentInput carries a document submission. The artifact bytes
// travel through the storage collaborator before this point; only the ref
// reaches the workflow core.
type SubmitDocumentInput struct {
	OwnerID        int64
	DocumentTypeID int64
	ArtifactRef    string
	FileName       string
	Size           int64
	MimeType       string
}

// DocumentService owns the document review state machine:
// PENDING -> APPROVED and PENDING -> REJECTED, both terminal. A rejected
// document is never resubmitted in place; a new upload is a new Document.
type DocumentService struct {
	documents DocumentStore
	docTypes  DocumentTypeStore
	authz     Authorizer
	notifier  email.Notifier
}

// NewDocumentService creates a new document service
func NewDocumentService(documents DocumentStore, docTypes DocumentTypeStore, authz Authorizer, notifier email.Notifier) *DocumentService {
	return &DocumentService{
		documents: documents,
		docTypes:  docTypes,
		authz:     authz,
		notifier:  notifier,
	}
}

// Submit creates a PENDING document for the owner. The owner submits their
// own documents; an admin may submit on anyone's behalf.
func (s *DocumentService) Submit(ctx context.Context, actorID int64, input SubmitDocumentInput) (*models.Document, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, input.OwnerID); err != nil {
		return nil, err
	}

	if input.Size < 0 {
		return nil, apperrors.NewValidationError("document size cannot be negative")
	}
	if !allowedDocumentMimeTypes[input.MimeType] {
		return nil, apperrors.NewValidationError(fmt.Sprintf("mime type %q is not accepted", input.MimeType))
	}
	if input.ArtifactRef == "" {
		return nil, apperrors.NewValidationError("artifact reference is required")
	}

	owner, err := s.authz.ResolveUser(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	docType, err := s.docTypes.GetByID(ctx, input.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if !docType.AppliesTo.Matches(owner.Role) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("document type %q does not apply to role %s", docType.Name, owner.Role))
	}

	doc := &models.Document{
		OwnerID:        input.OwnerID,
		DocumentTypeID: input.DocumentTypeID,
		ArtifactRef:    input.ArtifactRef,
		FileName:       input.FileName,
		Size:           input.Size,
		MimeType:       input.MimeType,
		Status:         models.ReviewPending,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("documentID", doc.ID).
		Int64("ownerID", doc.OwnerID).
		Str("documentType", docType.Name).
		Msg("Document submitted")

	return doc, nil
}

// Review moves a PENDING document to APPROVED or REJECTED. Admin only.
// Reviewer identity and timestamp are written atomically with the status;
// a second review loses against the status guard and the first reviewer's
// attribution stands.
func (s *DocumentService) Review(ctx context.Context, reviewerID, documentID int64, decision models.ReviewStatus, notes *string) (*models.Document, error) {
	reviewer, err := s.authz.RequireAdmin(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	if !decision.Terminal() {
		return nil, apperrors.NewValidationError("decision must be APPROVED or REJECTED")
	}

	if err := s.documents.Review(ctx, documentID, decision, reviewer.ID, time.Now(), notes); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("documentID", documentID).
		Int64("reviewerID", reviewer.ID).
		Str("decision", string(decision)).
		Msg("Document reviewed")

	s.notifyReviewed(ctx, doc, decision)

	return doc, nil
}

// notifyReviewed emails the owner about the decision. Notification failure
// never affects the completed transition.
func (s *DocumentService) notifyReviewed(ctx context.Context, doc *models.Document, decision models.ReviewStatus) {
	owner, err := s.authz.ResolveUser(ctx, doc.OwnerID)
	if err != nil {
		logger.Error().Err(err).Int64("ownerID", doc.OwnerID).Msg("Failed to load owner for review notification")
		return
	}

	typeName := fmt.Sprintf("#%d", doc.DocumentTypeID)
	if dt, err := s.docTypes.GetByID(ctx, doc.DocumentTypeID); err == nil {
		typeName = dt.Name
	}

	if err := s.notifier.SendDocumentReviewed(owner.Email, owner.Name, typeName, string(decision)); err != nil {
		logger.Error().Err(err).Int64("documentID", doc.ID).Msg("Failed to send review notification")
	}
}

// GetByID retrieves a document, visible to its owner or an admin.
func (s *DocumentService) GetByID(ctx context.Context, actorID, documentID int64) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, doc.OwnerID); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByOwner retrieves an owner's documents, visible to the owner or an
// admin.
func (s *DocumentService) ListByOwner(ctx context.Context, actorID, ownerID int64) ([]*models.Document, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, ownerID); err != nil {
		return nil, err
	}
	return s.documents.GetByOwner(ctx, ownerID)
}

// ListPending retrieves the review queue. Admin only.
func (s *DocumentService) ListPending(ctx context.Context, actorID int64) ([]*models.Document, error) {
	if _, err := s.authz.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.documents.GetPending(ctx)
}

// FindRequiredOutstanding returns the required document types for which the
// user holds no approved document. Callers gate enrollment activation and
// contract generation on an empty result.
func (s *DocumentService) FindRequiredOutstanding(ctx context.Context, actorID, userID int64) ([]*models.DocumentType, error) {
	if _, err := s.authz.RequireSelfOrAdmin(ctx, actorID, userID); err != nil {
		return nil, err
	}

	user, err := s.authz.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.documents.FindRequiredOutstanding(ctx, userID, user.Role)
}
