package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/application/audit"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/primegestor/primegestor-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_CostoFIFO(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")
	f.purchase(t, 5, "20")

	resp, err := inventory.NewCreateSaleUseCase(f.deps).Execute(context.Background(), "user-1", f.saleRequest(7, "25"))
	require.NoError(t, err)

	assert.Equal(t, "90", resp.CostOfGoodsSold.String())
	assert.Equal(t, "175", resp.Revenue.String())
	assert.Equal(t, "85", resp.Profit.String())
	require.Len(t, resp.Consumptions, 2)
	assert.Equal(t, int64(5), resp.Consumptions[0].Quantity)
	assert.Equal(t, int64(2), resp.Consumptions[1].Quantity)
	require.NotNil(t, resp.Product)
	assert.Equal(t, int64(3), resp.Product.Quantity)
	require.NotNil(t, resp.Customer)

	s := f.snapshot(t)
	assert.Equal(t, int64(3), s.quantity)
	assert.Equal(t, []int64{0, 3}, s.remaining)
	assert.Equal(t, 3, s.movements)
	assert.Equal(t, 1, s.sales)
	f.requireLedgerConsistent(t)

	movs, err := f.store.Movements().ListByProduct(context.Background(), f.product.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, int64(-7), movs[0].Quantity)
	assert.Equal(t, resp.ID, movs[0].Reference)
}

func TestCreateSale_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 4, "10")
	before := f.snapshot(t)

	_, err := inventory.NewCreateSaleUseCase(f.deps).Execute(context.Background(), "", f.saleRequest(5, "25"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(4), stockErr.Available)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Contains(t, err.Error(), "disponible 4")

	assert.Equal(t, before, f.snapshot(t))
}

func TestCreateSale_Validacion(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 4, "10")
	uc := inventory.NewCreateSaleUseCase(f.deps)
	negative := decimal.NewFromInt(-5)

	noPrice := f.saleRequest(1, "1")
	noPrice.SalePrice = nil
	negPrice := f.saleRequest(1, "1")
	negPrice.SalePrice = &negative
	noCustomer := f.saleRequest(1, "1")
	noCustomer.CustomerID = ""

	for name, in := range map[string]dto.CreateSaleRequest{
		"cantidad cero":   f.saleRequest(0, "10"),
		"sin precio":      noPrice,
		"precio negativo": negPrice,
		"sin cliente":     noCustomer,
	} {
		_, err := uc.Execute(context.Background(), "", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestCreateSale_ProductoOClienteInexistente(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewCreateSaleUseCase(f.deps)

	in := f.saleRequest(1, "10")
	in.ProductID = uuid.NewString()
	_, err := uc.Execute(context.Background(), "", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = f.saleRequest(1, "10")
	in.CustomerID = uuid.NewString()
	_, err = uc.Execute(context.Background(), "", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingMovements hace fallar el último paso de la venta.
type failingMovements struct {
	repository.StockMovementRepository
}

var errMovementWrite = errors.New("fallo simulado al escribir el movimiento")

func (failingMovements) Create(context.Context, *entity.StockMovement) error { return errMovementWrite }

type faultyRunner struct {
	inner inventory.TxRunner
}

func (r faultyRunner) Run(ctx context.Context, fn func(inventory.TxRepositories) error) error {
	return r.inner.Run(ctx, func(repos inventory.TxRepositories) error {
		repos.Movements = failingMovements{repos.Movements}
		return fn(repos)
	})
}

func TestCreateSale_FalloAlFinalRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")
	f.purchase(t, 5, "20")
	before := f.snapshot(t)

	deps := f.deps
	deps.Tx = faultyRunner{inner: f.store}
	_, err := inventory.NewCreateSaleUseCase(deps).Execute(context.Background(), "", f.saleRequest(7, "25"))
	require.ErrorIs(t, err, errMovementWrite)

	assert.Equal(t, before, f.snapshot(t), "ningún lote, venta ni cantidad debe cambiar")
	f.requireLedgerConsistent(t)
}

func TestCreateSale_ContextoCanceladoNoConfirma(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")
	before := f.snapshot(t)

	ctx, cancel := context.WithCancel(context.Background())
	deps := f.deps
	deps.Tx = cancellingRunner{inner: f.store, cancel: cancel}
	_, err := inventory.NewCreateSaleUseCase(deps).Execute(ctx, "", f.saleRequest(2, "25"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, f.snapshot(t))
}

// cancellingRunner cancela el contexto justo después de drenar, antes de terminar la transacción.
type cancellingRunner struct {
	inner  inventory.TxRunner
	cancel context.CancelFunc
}

func (r cancellingRunner) Run(ctx context.Context, fn func(inventory.TxRepositories) error) error {
	return r.inner.Run(ctx, func(repos inventory.TxRepositories) error {
		repos.Batches = cancelAfterDrain{StockBatchRepository: repos.Batches, cancel: r.cancel}
		return fn(repos)
	})
}

type cancelAfterDrain struct {
	repository.StockBatchRepository
	cancel context.CancelFunc
}

func (c cancelAfterDrain) Drain(ctx context.Context, batchID string, qty int64) error {
	err := c.StockBatchRepository.Drain(ctx, batchID, qty)
	c.cancel()
	return err
}

func TestCreateSale_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 100, "10")
	uc := inventory.NewCreateSaleUseCase(f.deps)

	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		noStock   atomic.Int32
		unexpected atomic.Int32
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), "", f.saleRequest(60, "15"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				noStock.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), noStock.Load())
	assert.Zero(t, unexpected.Load())

	s := f.snapshot(t)
	assert.Equal(t, int64(40), s.quantity)
	assert.Equal(t, []int64{40}, s.remaining)
	f.requireLedgerConsistent(t)
}

func TestCreateSale_MuchasVentasPequenasConcurrentes(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 30, "1")
	f.purchase(t, 30, "2")
	uc := inventory.NewCreateSaleUseCase(f.deps)

	var wg sync.WaitGroup
	var sold atomic.Int64
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Execute(context.Background(), "", f.saleRequest(1, "5")); err == nil {
				sold.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(60), sold.Load())
	s := f.snapshot(t)
	assert.Equal(t, int64(0), s.quantity)
	assert.Equal(t, []int64{0, 0}, s.remaining)
	f.requireLedgerConsistent(t)
}

func TestCreateSale_DesincronizacionEsViolacionDeInvariante(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, 2, "10")
	// Simula un libro corrupto: la cantidad del producto supera a sus lotes.
	require.NoError(t, f.store.Products().AdjustQuantity(ctx, f.product.ID, 5))
	before := f.snapshot(t)

	reg := prometheus.NewRegistry()
	deps := f.deps
	deps.Metrics = metrics.NewInventoryMetrics(reg)

	_, err := inventory.NewCreateSaleUseCase(deps).Execute(ctx, "", f.saleRequest(6, "25"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, before, f.snapshot(t))

	count, err := testutil.GatherAndCount(reg, "inventory_integrity_violations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListAvailable_EsIdempotente(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 3, "10")
	f.purchase(t, 4, "11")
	ctx := context.Background()

	first, err := f.store.Batches().ListAvailable(ctx, f.product.ID, false)
	require.NoError(t, err)
	second, err := f.store.Batches().ListAvailable(ctx, f.product.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.True(t, first[0].BatchDate.Before(first[1].BatchDate))
}

// failingActivityRepo simula una tabla de auditoría caída.
type failingActivityRepo struct{}

func (failingActivityRepo) Create(context.Context, *entity.ActivityLog) error {
	return errors.New("activity_logs no disponible")
}

func (failingActivityRepo) List(context.Context, int, int) ([]*entity.ActivityLog, error) {
	return nil, nil
}

func TestCreateSale_FalloDeAuditoriaNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")

	deps := f.deps
	deps.Audit = audit.Sync{Repo: failingActivityRepo{}}
	resp, err := inventory.NewCreateSaleUseCase(deps).Execute(context.Background(), "", f.saleRequest(2, "25"))
	require.NoError(t, err)
	assert.Equal(t, "20", resp.CostOfGoodsSold.String())
	assert.Equal(t, int64(3), f.snapshot(t).quantity)
}

func TestCreateSale_RegistraAuditoria(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")

	deps := f.deps
	deps.Audit = audit.Sync{Repo: f.store.ActivityLogs()}
	resp, err := inventory.NewCreateSaleUseCase(deps).Execute(context.Background(), "user-9", f.saleRequest(1, "25"))
	require.NoError(t, err)

	logs, err := f.store.ActivityLogs().List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "SALE", logs[0].Action)
	assert.Equal(t, resp.ID, logs[0].EntityID)
	assert.Equal(t, "user-9", logs[0].UserID)
	assert.Contains(t, string(logs[0].Details), `"cost_of_goods_sold":"10"`)
}

// flakyRunner devuelve ErrContention en los primeros intentos.
type flakyRunner struct {
	inner    inventory.TxRunner
	failures int32
	calls    atomic.Int32
}

func (r *flakyRunner) Run(ctx context.Context, fn func(inventory.TxRepositories) error) error {
	if r.calls.Add(1) <= r.failures {
		return domain.ErrContention
	}
	return r.inner.Run(ctx, fn)
}

func TestCreateSale_ReintentaAnteContencion(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")

	runner := &flakyRunner{inner: f.store, failures: 2}
	deps := f.deps
	deps.Tx = runner
	_, err := inventory.NewCreateSaleUseCase(deps).Execute(context.Background(), "", f.saleRequest(1, "25"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), runner.calls.Load())
	assert.Equal(t, int64(4), f.snapshot(t).quantity)
}

func TestCreateSale_ContencionPersistenteSeDevuelve(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")
	before := f.snapshot(t)

	runner := &flakyRunner{inner: f.store, failures: 100}
	deps := f.deps
	deps.Tx = runner
	deps.MaxRetries = 1
	_, err := inventory.NewCreateSaleUseCase(deps).Execute(context.Background(), "", f.saleRequest(1, "25"))
	assert.ErrorIs(t, err, domain.ErrContention)
	assert.Equal(t, int32(2), runner.calls.Load())
	assert.Equal(t, before, f.snapshot(t))
}

func TestQueryUseCase_VentaConservaCOGSCongelado(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, 5, "10")
	resp, err := inventory.NewCreateSaleUseCase(f.deps).Execute(context.Background(), "", f.saleRequest(2, "25"))
	require.NoError(t, err)
	// Compras posteriores a otro precio no alteran la venta ya registrada.
	f.purchase(t, 5, "99")

	q := inventory.NewQueryUseCase(f.store.Products(), f.store.Sales(), f.store.Purchases(), f.store.Batches(), f.store.Movements())
	got, err := q.GetSale(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "20", got.CostOfGoodsSold.String())
	assert.Equal(t, "30", got.Profit.String())

	_, err = q.GetSale(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	batches, err := q.ListBatches(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Len(t, batches, 2)

	movs, err := q.ListMovements(context.Background(), f.product.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs.Items, 3)
}
