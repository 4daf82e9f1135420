package seed

import (
	"context"
	"errors"

	appModels "github.com/edaraujo/secretaria/internal/app/models"
	appRepos "github.com/edaraujo/secretaria/internal/app/repositories"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	pkgAuth "github.com/edaraujo/secretaria/internal/pkg/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CreateDefaultData creates the default admin account and the catalog rows a
// fresh installation needs. Every step tolerates already-existing rows, so
// running it on every startup is safe.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	documentTypeRepo := appRepos.NewDocumentTypeRepository(dbPool)
	requestRepo := appRepos.NewRequestRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error // Collect errors without stopping the process

	// --- Default admin user --- //
	if _, err := userRepo.GetByLogin(ctx, "admin"); errors.Is(err, apperrors.ErrNotFound) {
		lgr.Info().Msg("Creating default admin user...")
		hashedPassword, hashErr := pkgAuth.HashPassword("Admin123!")
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, hashErr)
		} else {
			admin := &appModels.User{
				Name:     "Administrador",
				Email:    "admin@secretaria.app",
				Login:    "admin",
				Password: hashedPassword,
				CPF:      "000.000.000-00",
				Role:     appModels.RoleAdmin,
				IsActive: true,
			}
			if createErr := userRepo.Create(ctx, admin); createErr != nil && !errors.Is(createErr, apperrors.ErrConflict) {
				lgr.Error().Err(createErr).Msg("Error creating default admin user")
				finalErr = errors.Join(finalErr, createErr)
			}
		}
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default admin user")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Default document types --- //
	defaultDocumentTypes := []*appModels.DocumentType{
		{Name: "RG", AppliesTo: appModels.AppliesToBoth, Required: true},
		{Name: "CPF", AppliesTo: appModels.AppliesToBoth, Required: true},
		{Name: "Comprovante de Residencia", AppliesTo: appModels.AppliesToBoth, Required: true},
		{Name: "Historico Escolar", AppliesTo: appModels.AppliesToStudent, Required: true},
		{Name: "Diploma", AppliesTo: appModels.AppliesToTeacher, Required: true},
	}
	for _, dt := range defaultDocumentTypes {
		if err := documentTypeRepo.Create(ctx, dt); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("name", dt.Name).Msg("Error creating default document type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default request types --- //
	defaultRequestTypes := []*appModels.RequestType{
		{Name: "Declaracao de Matricula"},
		{Name: "Trancamento de Matricula"},
		{Name: "Revisao de Nota"},
		{Name: "Segunda Via de Documento"},
	}
	for _, rt := range defaultRequestTypes {
		if err := requestRepo.CreateType(ctx, rt); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("name", rt.Name).Msg("Error creating default request type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
