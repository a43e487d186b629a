package repository

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// ActivityLogRepository persistencia del registro de auditoría (append-only).
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}
