package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct {
	a access
}

// Create inserta un producto. ErrDuplicate si el SKU ya existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		st.products[p.ID] = &cp
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetBySKU devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				cp := *p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la tx ya es el único escritor.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update modifica datos de catálogo conservando Quantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.a.write(ctx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.NotFound("producto", p.ID)
		}
		for _, other := range st.products {
			if other.ID != p.ID && other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		cp.Quantity = cur.Quantity
		cp.CreatedAt = cur.CreatedAt
		st.products[p.ID] = &cp
		return nil
	})
}

// AdjustQuantity suma delta a Quantity.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int64) error {
	return r.a.write(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		if p.Quantity+delta < 0 {
			return fmt.Errorf("%w: producto %s quedaría con cantidad %d", domain.ErrInvariantViolation, id, p.Quantity+delta)
		}
		p.Quantity += delta
		return nil
	})
}

// List ordena por nombre.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			cp := *p
			all = append(all, &cp)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}
