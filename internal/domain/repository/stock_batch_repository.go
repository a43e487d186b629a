package repository

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// StockBatchRepository es el libro de lotes de inventario.
type StockBatchRepository interface {
	// Create inserta un lote con QuantityRemaining = QuantityIn. ErrNotFound si el producto no existe.
	Create(ctx context.Context, batch *entity.StockBatch) error
	// ListAvailable devuelve los lotes con QuantityRemaining > 0 ordenados por BatchDate y Seq ascendente.
	// Con forUpdate=true bloquea las filas devueltas (solo dentro de una tx).
	ListAvailable(ctx context.Context, productID string, forUpdate bool) ([]*entity.StockBatch, error)
	// ListByProduct devuelve todos los lotes del producto (incluidos los agotados) en orden FIFO.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error)
	// Drain descuenta qty del lote. ErrInvariantViolation si qty <= 0 o qty > QuantityRemaining.
	Drain(ctx context.Context, batchID string, qty int64) error
	// SumRemaining suma QuantityRemaining de todos los lotes del producto.
	SumRemaining(ctx context.Context, productID string) (int64, error)
}
