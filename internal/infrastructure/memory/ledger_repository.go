package memory

import (
	"context"
	"sort"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.PurchaseRepository      = (*PurchaseRepo)(nil)
)

// StockMovementRepo registro append-only de movimientos.
type StockMovementRepo struct {
	a access
}

// Create agrega el movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.NotFound("producto", m.ProductID)
		}
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

// ListByProduct más recientes primero.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.read(func(st *state) error {
		list := make([]*entity.StockMovement, 0)
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; m.ProductID == productID {
				cp := *m
				list = append(list, &cp)
			}
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

// SaleRepo persistencia de ventas en memoria.
type SaleRepo struct {
	a access
}

// Create inserta la venta; producto y cliente deben existir.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.products[s.ProductID]; !ok {
			return domain.NotFound("producto", s.ProductID)
		}
		if _, ok := st.customers[s.CustomerID]; !ok {
			return domain.NotFound("cliente", s.CustomerID)
		}
		cp := *s
		st.sales[s.ID] = &cp
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

// List ventas en [from, to), más recientes primero.
func (r *SaleRepo) List(_ context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.read(func(st *state) error {
		list := make([]*entity.Sale, 0)
		for _, s := range st.sales {
			if inRange(s.CreatedAt, from, to) {
				cp := *s
				list = append(list, &cp)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

// PurchaseRepo persistencia de compras en memoria.
type PurchaseRepo struct {
	a access
}

// Create inserta la compra; producto y proveedor deben existir.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.products[p.ProductID]; !ok {
			return domain.NotFound("producto", p.ProductID)
		}
		if _, ok := st.suppliers[p.SupplierID]; !ok {
			return domain.NotFound("proveedor", p.SupplierID)
		}
		cp := *p
		st.purchases[p.ID] = &cp
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.a.read(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

// List compras en [from, to), más recientes primero.
func (r *PurchaseRepo) List(_ context.Context, from, to *time.Time, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	err := r.a.read(func(st *state) error {
		list := make([]*entity.Purchase, 0)
		for _, p := range st.purchases {
			if inRange(p.CreatedAt, from, to) {
				cp := *p
				list = append(list, &cp)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
