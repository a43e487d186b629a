package repository

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// StockMovementRepository registro append-only de movimientos: no expone Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
