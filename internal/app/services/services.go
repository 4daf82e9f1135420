// Package services holds the lifecycle managers of the workflow core.
// Every state-mutating operation re-authorizes the acting principal through
// the Authorizer, regardless of earlier checks in the transport layer.
package services

import (
	"context"

	"github.com/edaraujo/secretaria/internal/app/models"
)

// Authorizer is the access-control layer as seen by the services.
// Implemented by auth.AuthorizationService; faked in tests.
type Authorizer interface {
	ResolveUser(ctx context.Context, userID int64) (*models.User, error)
	RequireAdmin(ctx context.Context, userID int64) (*models.User, error)
	RequireTeacher(ctx context.Context, userID int64) (*models.User, error)
	RequireSelfOrAdmin(ctx context.Context, userID, ownerID int64) (*models.User, error)
}

// Services bundles every lifecycle service for dependency wiring.
type Services struct {
	Auth       *AuthService
	User       *UserService
	Catalog    *CatalogService
	Enrollment *EnrollmentService
	Document   *DocumentService
	Contract   *ContractService
	Grade      *GradeService
	Request    *RequestService
}
