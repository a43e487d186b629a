package inventory

import (
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/primegestor/primegestor-api/pkg/metrics"
)

// Operaciones (etiqueta de métricas y acción de auditoría).
const (
	OperationPurchase = "purchase"
	OperationSale     = "sale"
)

// Deps dependencias compartidas por los casos de uso de compra y venta.
// Los repositorios sueltos se usan solo para validaciones fuera de la transacción.
type Deps struct {
	Tx         TxRunner
	Products   repository.ProductRepository
	Suppliers  repository.SupplierRepository
	Customers  repository.CustomerRepository
	Locker     ProductLocker
	Audit      AuditRecorder
	Metrics    *metrics.InventoryMetrics
	Log        *logger.Logger
	MaxRetries int
	Backoff    time.Duration
	Now        func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = NoopLocker{}
	}
	if d.Audit == nil {
		d.Audit = noopAudit{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.MaxRetries < 0 {
		d.MaxRetries = 0
	}
	if d.Backoff <= 0 {
		d.Backoff = 25 * time.Millisecond
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
