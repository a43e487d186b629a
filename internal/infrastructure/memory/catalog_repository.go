package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository   = (*WarehouseRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.CustomerRepository    = (*CustomerRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)
)

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ a access }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *w
		st.warehouses[w.ID] = &cp
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			cp := *w
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.a.read(func(st *state) error {
		out = sortedByName(st.warehouses, func(w *entity.Warehouse) string { return w.Name }, limit, offset)
		return nil
	})
	return out, err
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ a access }

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *s
		st.suppliers[s.ID] = &cp
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.a.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.a.read(func(st *state) error {
		out = sortedByName(st.suppliers, func(s *entity.Supplier) string { return s.Name }, limit, offset)
		return nil
	})
	return out, err
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ a access }

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *c
		st.customers[c.ID] = &cp
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.a.read(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.a.read(func(st *state) error {
		out = sortedByName(st.customers, func(c *entity.Customer) string { return c.Name }, limit, offset)
		return nil
	})
	return out, err
}

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ a access }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.a.write(ctx, func(st *state) error {
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		cp := *u
		st.users[u.ID] = &cp
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// ActivityLogRepo auditoría en memoria (append-only).
type ActivityLogRepo struct{ a access }

func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	return r.a.write(ctx, func(st *state) error {
		cp := *l
		st.logs = append(st.logs, &cp)
		return nil
	})
}

// List más recientes primero.
func (r *ActivityLogRepo) List(_ context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	var out []*entity.ActivityLog
	err := r.a.read(func(st *state) error {
		list := make([]*entity.ActivityLog, 0, len(st.logs))
		for i := len(st.logs) - 1; i >= 0; i-- {
			cp := *st.logs[i]
			list = append(list, &cp)
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

func sortedByName[T any](m map[string]*T, name func(*T) string, limit, offset int) []*T {
	list := make([]*T, 0, len(m))
	for _, v := range m {
		cp := *v
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
	return paginate(list, limit, offset)
}
