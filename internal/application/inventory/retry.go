package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/pkg/metrics"
)

// withContentionRetry repite fn completa mientras falle con ErrContention, hasta maxRetries veces.
// La espera crece linealmente (backoff, 2*backoff, ...) y se corta si el contexto se cancela.
func withContentionRetry(ctx context.Context, d Deps, operation string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrContention) || attempt >= d.MaxRetries {
			return err
		}
		d.Metrics.IncRetry(operation)
		d.Log.Debug().Str("operation", operation).Int("attempt", attempt+1).Err(err).Msg("reintentando por contención")

		timer := time.NewTimer(time.Duration(attempt+1) * d.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// outcome clasifica el error para la etiqueta de métricas.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrInvariantViolation):
		return metrics.OutcomeInvariant
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, domain.ErrContention):
		return metrics.OutcomeContention
	default:
		return metrics.OutcomeError
	}
}
