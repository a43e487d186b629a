package repository

import (
	"context"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas. Las ventas no se modifican después de crearse.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
