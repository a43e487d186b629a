package postgres

import (
	"context"
	"fmt"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

const batchColumns = `id, seq, product_id, purchase_id, quantity_in, quantity_remaining, purchase_price, batch_date`

// StockBatchRepo libro de lotes sobre PostgreSQL.
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

// Create inserta el lote con quantity_remaining = quantity_in y devuelve el seq asignado.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, product_id, purchase_id, quantity_in, quantity_remaining, purchase_price, batch_date)
		VALUES ($1, $2, $3, $4, $4, $5, $6)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		b.ID, b.ProductID, b.PurchaseID, b.QuantityIn, b.PurchasePrice, b.BatchDate,
	).Scan(&b.Seq)
	if err != nil {
		switch {
		case isForeignKeyViolation(err), isInvalidText(err):
			return domain.NotFound("producto", b.ProductID)
		case isCheckViolation(err):
			return domain.Invalid("quantity_in debe ser mayor que 0 y purchase_price no negativo")
		}
		return fmt.Errorf("insert stock batch: %w", err)
	}
	b.QuantityRemaining = b.QuantityIn
	return nil
}

// ListAvailable lotes con remanente en orden FIFO; con forUpdate bloquea las filas en ese orden.
func (r *StockBatchRepo) ListAvailable(ctx context.Context, productID string, forUpdate bool) ([]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches
		WHERE product_id = $1 AND quantity_remaining > 0
		ORDER BY batch_date ASC, seq ASC`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return r.list(ctx, query, productID)
}

// ListByProduct todos los lotes del producto en orden FIFO.
func (r *StockBatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM stock_batches
		WHERE product_id = $1 ORDER BY batch_date ASC, seq ASC`, productID)
}

func (r *StockBatchRepo) list(ctx context.Context, query, productID string) ([]*entity.StockBatch, error) {
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		if isInvalidText(err) {
			return []*entity.StockBatch{}, nil
		}
		return nil, fmt.Errorf("list stock batches: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockBatch, 0)
	for rows.Next() {
		var b entity.StockBatch
		if err := rows.Scan(&b.ID, &b.Seq, &b.ProductID, &b.PurchaseID, &b.QuantityIn,
			&b.QuantityRemaining, &b.PurchasePrice, &b.BatchDate); err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Drain descuenta qty; la condición en el WHERE impide dejar el lote negativo.
func (r *StockBatchRepo) Drain(ctx context.Context, batchID string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: drenado no positivo (%d) en lote %s", domain.ErrInvariantViolation, qty, batchID)
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_batches SET quantity_remaining = quantity_remaining - $2
		 WHERE id = $1 AND quantity_remaining >= $2`,
		batchID, qty,
	)
	if err != nil {
		return fmt.Errorf("drain stock batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s no tiene %d unidades", domain.ErrInvariantViolation, batchID, qty)
	}
	return nil
}

// SumRemaining suma los remanentes del producto.
func (r *StockBatchRepo) SumRemaining(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_remaining), 0)::bigint FROM stock_batches WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock batches: %w", err)
	}
	return total, nil
}
