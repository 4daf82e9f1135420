package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// ContractRenewer is the slice of the contract service the renewal job
// uses.
type ContractRenewer interface {
	FindOwnersNeedingRenewal(ctx context.Context, semester, year int) ([]int64, error)
	IssueForRenewal(ctx context.Context, ownerID int64, semester, year int) (*models.Contract, error)
}

// TempSweeper is the slice of the artifact storage the cleanup job uses.
type TempSweeper interface {
	SweepTemp(maxAge time.Duration) (int, error)
}

// NewContractRenewalJob issues contracts for owners holding an active
// enrollment without one for the current term. Failures are per owner: one
// bad record does not stop the batch, and a conflict from a concurrent
// interactive issue is not an error.
func NewContractRenewalJob(interval time.Duration, renewer ContractRenewer) Job {
	return Job{
		Name:     "contract-renewal",
		Interval: interval,
		Handler: func(ctx context.Context, now time.Time) error {
			semester, year := CurrentTerm(now)

			owners, err := renewer.FindOwnersNeedingRenewal(ctx, semester, year)
			if err != nil {
				return err
			}

			issued := 0
			for _, ownerID := range owners {
				if _, err := renewer.IssueForRenewal(ctx, ownerID, semester, year); err != nil {
					if errors.Is(err, apperrors.ErrConflict) {
						continue
					}
					logger.Error().Err(err).
						Int64("ownerID", ownerID).
						Int("semester", semester).
						Int("year", year).
						Msg("Contract renewal failed for owner")
					continue
				}
				issued++
			}

			if issued > 0 {
				logger.Info().
					Int("issued", issued).
					Int("semester", semester).
					Int("year", year).
					Msg("Contract renewal batch completed")
			}
			return nil
		},
	}
}

// NewTempCleanupJob removes temp artifacts older than maxAge.
func NewTempCleanupJob(interval, maxAge time.Duration, sweeper TempSweeper) Job {
	return Job{
		Name:     "temp-cleanup",
		Interval: interval,
		Handler: func(_ context.Context, _ time.Time) error {
			removed, err := sweeper.SweepTemp(maxAge)
			if err != nil {
				return err
			}
			if removed > 0 {
				logger.Info().Int("removed", removed).Msg("Temp storage swept")
			}
			return nil
		},
	}
}
