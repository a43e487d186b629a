package inventory

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Products  repository.ProductRepository
	Batches   repository.StockBatchRepository
	Movements repository.StockMovementRepository
	Sales     repository.SaleRepository
	Purchases repository.PurchaseRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil y el contexto sigue vivo; Rollback en cualquier otro caso.
// Los conflictos de bloqueo se devuelven envueltos en domain.ErrContention.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// ProductLocker serializa escritores de un mismo producto entre instancias de la API.
// El release devuelto es idempotente.
type ProductLocker interface {
	Lock(ctx context.Context, productID string) (release func(), err error)
}

// NoopLocker no bloquea: la exclusión la dan los FOR UPDATE de la transacción.
type NoopLocker struct{}

// Lock implementa ProductLocker.
func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// AuditRecorder recibe entradas de auditoría sin bloquear ni devolver error.
type AuditRecorder interface {
	Record(entry *entity.ActivityLog)
}

type noopAudit struct{}

func (noopAudit) Record(*entity.ActivityLog) {}

var _ ProductLocker = NoopLocker{}
