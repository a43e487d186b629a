package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// state es una foto completa de los datos. Una foto publicada nunca se modifica:
// toda escritura trabaja sobre un clone y lo publica al terminar bien.
type state struct {
	products   map[string]*entity.Product
	batches    map[string]*entity.StockBatch
	batchSeq   int64
	movements  []*entity.StockMovement
	sales      map[string]*entity.Sale
	purchases  map[string]*entity.Purchase
	warehouses map[string]*entity.Warehouse
	suppliers  map[string]*entity.Supplier
	customers  map[string]*entity.Customer
	users      map[string]*entity.User
	logs       []*entity.ActivityLog
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		batches:    map[string]*entity.StockBatch{},
		sales:      map[string]*entity.Sale{},
		purchases:  map[string]*entity.Purchase{},
		warehouses: map[string]*entity.Warehouse{},
		suppliers:  map[string]*entity.Supplier{},
		customers:  map[string]*entity.Customer{},
		users:      map[string]*entity.User{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:   cloneMap(s.products),
		batches:    cloneMap(s.batches),
		batchSeq:   s.batchSeq,
		movements:  cloneSlice(s.movements),
		sales:      cloneMap(s.sales),
		purchases:  cloneMap(s.purchases),
		warehouses: cloneMap(s.warehouses),
		suppliers:  cloneMap(s.suppliers),
		customers:  cloneMap(s.customers),
		users:      cloneMap(s.users),
		logs:       cloneSlice(s.logs),
	}
	return c
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func cloneSlice[T any](s []*T) []*T {
	out := make([]*T, len(s))
	for i, v := range s {
		cp := *v
		out[i] = &cp
	}
	return out
}

// Store almacenamiento en memoria con transacciones todo-o-nada. Un único escritor a la vez
// (semáforo con espera acotada); los lectores ven siempre la última foto confirmada.
type Store struct {
	mu        sync.RWMutex
	committed *state

	writer         chan struct{}
	acquireTimeout time.Duration
}

// Option configura el Store.
type Option func(*Store)

// WithAcquireTimeout tiempo máximo esperando el turno de escritura antes de ErrContention.
func WithAcquireTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.acquireTimeout = d
		}
	}
}

// NewStore crea un Store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		committed:      newState(),
		writer:         make(chan struct{}, 1),
		acquireTimeout: 3 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

func (s *Store) publish(st *state) {
	s.mu.Lock()
	s.committed = st
	s.mu.Unlock()
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.acquireTimeout)
	defer timer.Stop()
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: tiempo de espera agotado (%s)", domain.ErrContention, s.acquireTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.writer }

// update aplica fn sobre un clone y lo publica si fn no falla y ctx sigue vivo.
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.snapshot().clone()
	if err := fn(work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.publish(work)
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return s.update(ctx, func(st *state) error {
		a := txAccess{st: st}
		return fn(inventory.TxRepositories{
			Products:  &ProductRepo{a: a},
			Batches:   &StockBatchRepo{a: a},
			Movements: &StockMovementRepo{a: a},
			Sales:     &SaleRepo{a: a},
			Purchases: &PurchaseRepo{a: a},
		})
	})
}

// access abstrae si un repositorio opera sobre la foto confirmada o sobre el clone de una tx.
type access interface {
	read(fn func(st *state) error) error
	write(ctx context.Context, fn func(st *state) error) error
}

type storeAccess struct{ s *Store }

func (a storeAccess) read(fn func(st *state) error) error { return fn(a.s.snapshot()) }

func (a storeAccess) write(ctx context.Context, fn func(st *state) error) error {
	return a.s.update(ctx, fn)
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error { return fn(a.st) }

func (a txAccess) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(a.st)
}

// Repositorios fuera de transacción.

// Products repositorio de productos sobre la foto confirmada.
func (s *Store) Products() *ProductRepo { return &ProductRepo{a: storeAccess{s}} }

// Batches repositorio de lotes.
func (s *Store) Batches() *StockBatchRepo { return &StockBatchRepo{a: storeAccess{s}} }

// Movements repositorio de movimientos.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{a: storeAccess{s}} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{a: storeAccess{s}} }

// Purchases repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{a: storeAccess{s}} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{a: storeAccess{s}} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{a: storeAccess{s}} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{a: storeAccess{s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{a: storeAccess{s}} }

// ActivityLogs repositorio de auditoría.
func (s *Store) ActivityLogs() *ActivityLogRepo { return &ActivityLogRepo{a: storeAccess{s}} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{a: storeAccess{s}} }

var _ inventory.TxRunner = (*Store)(nil)

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
