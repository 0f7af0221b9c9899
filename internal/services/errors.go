package services

import (
	"context"
	"errors"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/interfaces"
)

const (
	msgStorageUnavailable = "Database not available. Please try again later."
	msgAlreadyProcessed   = "Application has already been processed"
	msgServerError        = "Server error"
)

// storageGuard turns raw repository failures into the error taxonomy.
type storageGuard struct {
	health interfaces.HealthChecker
}

// preflight fails fast before any write when storage does not answer.
func (g storageGuard) preflight(ctx context.Context) error {
	if g.health == nil {
		return nil
	}
	if err := g.health.Ping(ctx); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, msgStorageUnavailable, err)
	}
	return nil
}

// classify keeps errors that already carry a kind. Anything else is storage
// unavailability when a ping fails, internal otherwise. Never call it while a
// transaction is open.
func (g storageGuard) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	var ve *apperr.ValidationError
	if errors.As(err, &ae) || errors.As(err, &ve) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.ErrStorageUnavailable, msgStorageUnavailable, err)
	}
	if g.health != nil {
		if pingErr := g.health.Ping(context.WithoutCancel(ctx)); pingErr != nil {
			return apperr.Wrap(apperr.ErrStorageUnavailable, msgStorageUnavailable, err)
		}
	}
	return apperr.Wrap(apperr.ErrInternal, msgServerError, err)
}
