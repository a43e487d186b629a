package repository

import (
	"context"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// PurchaseRepository persistencia de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Purchase, error)
}
