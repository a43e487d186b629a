package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo implementa el libro de lotes en memoria.
type StockBatchRepo struct {
	a access
}

// Create asigna Seq e inserta con QuantityRemaining = QuantityIn.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	if b.QuantityIn <= 0 {
		return domain.Invalid("quantity_in debe ser mayor que 0")
	}
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.products[b.ProductID]; !ok {
			return domain.NotFound("producto", b.ProductID)
		}
		st.batchSeq++
		b.Seq = st.batchSeq
		b.QuantityRemaining = b.QuantityIn
		cp := *b
		st.batches[b.ID] = &cp
		return nil
	})
}

// ListAvailable lotes con remanente en orden FIFO. forUpdate no aplica: la tx es el único escritor.
func (r *StockBatchRepo) ListAvailable(_ context.Context, productID string, _ bool) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	err := r.a.read(func(st *state) error {
		out = collectBatches(st, productID, true)
		return nil
	})
	return out, err
}

// ListByProduct todos los lotes del producto en orden FIFO.
func (r *StockBatchRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	err := r.a.read(func(st *state) error {
		out = collectBatches(st, productID, false)
		return nil
	})
	return out, err
}

// Drain descuenta qty del lote.
func (r *StockBatchRepo) Drain(ctx context.Context, batchID string, qty int64) error {
	return r.a.write(ctx, func(st *state) error {
		b, ok := st.batches[batchID]
		if !ok {
			return fmt.Errorf("%w: lote %s no existe", domain.ErrInvariantViolation, batchID)
		}
		if qty <= 0 || qty > b.QuantityRemaining {
			return fmt.Errorf("%w: lote %s tiene %d, se intentó drenar %d",
				domain.ErrInvariantViolation, batchID, b.QuantityRemaining, qty)
		}
		b.QuantityRemaining -= qty
		return nil
	})
}

// SumRemaining suma los remanentes del producto.
func (r *StockBatchRepo) SumRemaining(_ context.Context, productID string) (int64, error) {
	var total int64
	err := r.a.read(func(st *state) error {
		for _, b := range st.batches {
			if b.ProductID == productID {
				total += b.QuantityRemaining
			}
		}
		return nil
	})
	return total, err
}

func collectBatches(st *state, productID string, onlyAvailable bool) []*entity.StockBatch {
	out := make([]*entity.StockBatch, 0)
	for _, b := range st.batches {
		if b.ProductID != productID {
			continue
		}
		if onlyAvailable && b.QuantityRemaining <= 0 {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BatchDate.Equal(out[j].BatchDate) {
			return out[i].BatchDate.Before(out[j].BatchDate)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
