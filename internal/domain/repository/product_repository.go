package repository

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica datos de catálogo; nunca Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// AdjustQuantity suma delta a Quantity. Falla con ErrInvariantViolation si el resultado fuera negativo.
	AdjustQuantity(ctx context.Context, id string, delta int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
