package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/edaraujo/secretaria/internal/app/auth"
	appControllers "github.com/edaraujo/secretaria/internal/app/controllers"
	appMigrations "github.com/edaraujo/secretaria/internal/app/migrations"
	appRepos "github.com/edaraujo/secretaria/internal/app/repositories"
	appRoutes "github.com/edaraujo/secretaria/internal/app/routes"
	appServices "github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/config"
	"github.com/edaraujo/secretaria/internal/db"
	appMiddleware "github.com/edaraujo/secretaria/internal/middleware"
	"github.com/edaraujo/secretaria/internal/pkg/auth"
	"github.com/edaraujo/secretaria/internal/pkg/email"
	"github.com/edaraujo/secretaria/internal/pkg/filestorage"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
	"github.com/edaraujo/secretaria/internal/scheduler"
	"github.com/edaraujo/secretaria/internal/seed"
)

// Dependencies holds the wired application graph.
type Dependencies struct {
	AuthService       *appServices.AuthService
	UserService       *appServices.UserService
	CatalogService    *appServices.CatalogService
	EnrollmentService *appServices.EnrollmentService
	DocumentService   *appServices.DocumentService
	ContractService   *appServices.ContractService
	GradeService      *appServices.GradeService
	RequestService    *appServices.RequestService

	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	CatalogController    *appControllers.CatalogController
	EnrollmentController *appControllers.EnrollmentController
	DocumentController   *appControllers.DocumentController
	ContractController   *appControllers.ContractController
	GradeController      *appControllers.GradeController
	RequestController    *appControllers.RequestController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *auth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	Scheduler      *scheduler.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDir(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Missing defaults degrade the installation but should not block it.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// background scheduler.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.User)

	deps.JWTService = auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  parseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: parseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	notifier := email.NewSMTPNotifier(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, deps.JWTService)
	deps.UserService = appServices.NewUserService(deps.Repos.User, deps.AuthzService)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.Course,
		deps.Repos.Discipline,
		deps.Repos.Class,
		deps.Repos.DocumentType,
		deps.Repos.ContractTemplate,
		deps.AuthzService,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Repos.Enrollment, deps.Repos.Course, deps.AuthzService)
	deps.DocumentService = appServices.NewDocumentService(deps.Repos.Document, deps.Repos.DocumentType, deps.AuthzService, notifier)
	deps.ContractService = appServices.NewContractService(
		deps.Repos.Contract,
		deps.Repos.ContractTemplate,
		deps.Repos.Enrollment,
		deps.Repos.Course,
		deps.FileStorage,
		deps.AuthzService,
		notifier,
	)
	deps.GradeService = appServices.NewGradeService(deps.Repos.Evaluation, deps.Repos.Class, deps.AuthzService)
	deps.RequestService = appServices.NewRequestService(deps.Repos.Request, deps.AuthzService, notifier)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, deps.FileStorage)
	deps.ContractController = appControllers.NewContractController(deps.ContractService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService)
	deps.RequestController = appControllers.NewRequestController(deps.RequestService)

	if cfg.Scheduler.Enabled {
		deps.Scheduler = scheduler.New(scheduler.NewRealClock(), []scheduler.Job{
			scheduler.NewContractRenewalJob(
				parseDuration(cfg.Scheduler.RenewalInterval, 1*time.Hour),
				deps.ContractService,
			),
			scheduler.NewTempCleanupJob(
				parseDuration(cfg.Scheduler.CleanupInterval, 6*time.Hour),
				parseDuration(cfg.Storage.TempMaxAge, 24*time.Hour),
				deps.FileStorage,
			),
		})
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CatalogController,
		deps.EnrollmentController,
		deps.DocumentController,
		deps.ContractController,
		deps.GradeController,
		deps.RequestController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// parseDuration parses a configured duration, falling back to a default.
// Configuration is validated at load time, so the fallback only covers
// programmatic callers.
func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
