package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/infrastructure/memory"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	deps     inventory.Deps
	product  *entity.Product
	supplier *entity.Supplier
	customer *entity.Customer
	clock    *fakeClock
}

// fakeClock avanza un segundo por llamada para que cada lote tenga un BatchDate distinto.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}

	supplier := &entity.Supplier{ID: uuid.NewString(), Name: "Distribuidora Norte"}
	customer := &entity.Customer{ID: uuid.NewString(), Name: "Cliente Mostrador"}
	product := &entity.Product{ID: uuid.NewString(), SKU: "SKU-001", Name: "Café molido 500g", Price: decimal.NewFromInt(25)}
	require.NoError(t, store.Suppliers().Create(ctx, supplier))
	require.NoError(t, store.Customers().Create(ctx, customer))
	require.NoError(t, store.Products().Create(ctx, product))

	deps := inventory.Deps{
		Tx:         store,
		Products:   store.Products(),
		Suppliers:  store.Suppliers(),
		Customers:  store.Customers(),
		Log:        logger.Nop(),
		MaxRetries: 2,
		Backoff:    time.Millisecond,
		Now:        clock.Now,
	}
	return &fixture{store: store, deps: deps, product: product, supplier: supplier, customer: customer, clock: clock}
}

func (f *fixture) purchase(t *testing.T, qty int64, price string) *dto.PurchaseResponse {
	t.Helper()
	p := decimal.RequireFromString(price)
	resp, err := inventory.NewCreatePurchaseUseCase(f.deps).Execute(context.Background(), "user-1", dto.CreatePurchaseRequest{
		SupplierID:        f.supplier.ID,
		ProductID:         f.product.ID,
		PurchasedQuantity: qty,
		PurchasePrice:     &p,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) saleRequest(qty int64, price string) dto.CreateSaleRequest {
	p := decimal.RequireFromString(price)
	return dto.CreateSaleRequest{
		CustomerID:   f.customer.ID,
		ProductID:    f.product.ID,
		SoldQuantity: qty,
		SalePrice:    &p,
	}
}

// snapshot resume el estado observable del inventario de un producto.
type snapshot struct {
	quantity  int64
	remaining []int64
	movements int
	sales     int
}

func (f *fixture) snapshot(t *testing.T) snapshot {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.Products().GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	batches, err := f.store.Batches().ListByProduct(ctx, f.product.ID)
	require.NoError(t, err)
	movs, err := f.store.Movements().ListByProduct(ctx, f.product.ID, 0, 0)
	require.NoError(t, err)
	sales, err := f.store.Sales().List(ctx, nil, nil, 0, 0)
	require.NoError(t, err)

	s := snapshot{quantity: p.Quantity, movements: len(movs), sales: len(sales)}
	for _, b := range batches {
		s.remaining = append(s.remaining, b.QuantityRemaining)
	}
	return s
}

func (f *fixture) requireLedgerConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.Products().GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	sum, err := f.store.Batches().SumRemaining(ctx, f.product.ID)
	require.NoError(t, err)
	require.Equal(t, sum, p.Quantity, "Product.quantity debe igualar la suma de remanentes")
}
