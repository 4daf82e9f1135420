package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaraujo/secretaria/internal/app/controllers"
	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
	pkgauth "github.com/edaraujo/secretaria/internal/pkg/auth"
)

// stubAuthz accepts one known caller for every role check.
type stubAuthz struct {
	user *models.User
}

func (s *stubAuthz) ResolveUser(_ context.Context, userID int64) (*models.User, error) {
	return s.user, nil
}

func (s *stubAuthz) RequireAdmin(_ context.Context, _ int64) (*models.User, error) {
	return s.user, nil
}

func (s *stubAuthz) RequireTeacher(_ context.Context, _ int64) (*models.User, error) {
	return s.user, nil
}

func (s *stubAuthz) RequireSelfOrAdmin(_ context.Context, _, _ int64) (*models.User, error) {
	return s.user, nil
}

// stubDocumentStore returns empty result sets for every read.
type stubDocumentStore struct{}

func (stubDocumentStore) Create(context.Context, *models.Document) error { return nil }
func (stubDocumentStore) GetByID(context.Context, int64) (*models.Document, error) {
	return &models.Document{}, nil
}
func (stubDocumentStore) GetByOwner(context.Context, int64) ([]*models.Document, error) {
	return nil, nil
}
func (stubDocumentStore) GetPending(context.Context) ([]*models.Document, error) { return nil, nil }
func (stubDocumentStore) Review(context.Context, int64, models.ReviewStatus, int64, time.Time, *string) error {
	return nil
}
func (stubDocumentStore) FindRequiredOutstanding(context.Context, int64, models.RoleType) ([]*models.DocumentType, error) {
	return nil, nil
}

type stubContractStore struct{}

func (stubContractStore) Create(context.Context, *models.Contract) error { return nil }
func (stubContractStore) GetByID(context.Context, int64) (*models.Contract, error) {
	return &models.Contract{}, nil
}
func (stubContractStore) GetByOwner(context.Context, int64) ([]*models.Contract, error) {
	return nil, nil
}
func (stubContractStore) Accept(context.Context, int64, time.Time) error { return nil }
func (stubContractStore) UpdateArtifactRef(context.Context, int64, string) error { return nil }
func (stubContractStore) FindOwnersNeedingRenewal(context.Context, int, int) ([]int64, error) {
	return nil, nil
}

type stubEvaluationStore struct{}

func (stubEvaluationStore) CreateEvaluation(context.Context, *models.Evaluation) error { return nil }
func (stubEvaluationStore) GetEvaluationByID(context.Context, int64) (*models.Evaluation, error) {
	return &models.Evaluation{}, nil
}
func (stubEvaluationStore) GetEvaluationsByClass(context.Context, int64) ([]*models.Evaluation, error) {
	return nil, nil
}
func (stubEvaluationStore) SoftDeleteEvaluation(context.Context, int64) error { return nil }
func (stubEvaluationStore) CreateGrade(context.Context, *models.Grade) error { return nil }
func (stubEvaluationStore) GetGradeByID(context.Context, int64) (*models.Grade, error) {
	return &models.Grade{}, nil
}
func (stubEvaluationStore) GetGradesByEvaluation(context.Context, int64) ([]*models.Grade, error) {
	return nil, nil
}
func (stubEvaluationStore) GetGradesByStudent(context.Context, int64) ([]*models.Grade, error) {
	return nil, nil
}
func (stubEvaluationStore) UpdateGrade(context.Context, *models.Grade) error { return nil }

type stubClassStore struct{}

func (stubClassStore) GetByID(context.Context, int64) (*models.Class, error) {
	return &models.Class{}, nil
}
func (stubClassStore) IsTeacherAssigned(context.Context, int64, int64, int64) (bool, error) {
	return true, nil
}
func (stubClassStore) HasStudent(context.Context, int64, int64) (bool, error) { return true, nil }

// newTestRouter assembles the full route table over stub stores so requests
// exercise the registered patterns end to end.
func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	admin := &models.User{ID: 1, Name: "Ana Admin", Login: "ana", Role: models.RoleAdmin, IsActive: true}
	authz := &stubAuthz{user: admin}

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test",
	})
	token, _, _, err := jwtService.GenerateTokenPair(admin)
	require.NoError(t, err)

	documentService := services.NewDocumentService(stubDocumentStore{}, nil, authz, nil)
	contractService := services.NewContractService(stubContractStore{}, nil, nil, nil, nil, authz, nil)
	gradeService := services.NewGradeService(stubEvaluationStore{}, stubClassStore{}, authz)

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(services.NewAuthService(nil, jwtService)),
		controllers.NewUserController(services.NewUserService(nil, authz)),
		controllers.NewCatalogController(services.NewCatalogService(nil, nil, nil, nil, nil, authz)),
		controllers.NewEnrollmentController(services.NewEnrollmentService(nil, nil, authz)),
		controllers.NewDocumentController(documentService, nil),
		controllers.NewContractController(contractService),
		controllers.NewGradeController(gradeService),
		controllers.NewRequestController(services.NewRequestService(nil, authz, nil)),
		middleware.NewAuthMiddleware(jwtService),
	)
	return router, token
}

// Path parameters in the route table must use the names the handlers read,
// or well-formed requests die with 400 before reaching any service.
func TestUserAndClassScopedRoutes(t *testing.T) {
	router, token := newTestRouter(t)

	paths := []string{
		"/api/v1/users/7/documents",
		"/api/v1/users/7/documents/outstanding",
		"/api/v1/users/7/contracts",
		"/api/v1/classes/7/evaluations",
		"/api/v1/students/7/grades",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}
