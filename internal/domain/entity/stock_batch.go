package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch lote de adquisición. QuantityIn y PurchasePrice son inmutables;
// QuantityRemaining solo decrece (0 <= QuantityRemaining <= QuantityIn). Nunca se elimina.
type StockBatch struct {
	ID                string
	Seq               int64 // orden de creación, desempate FIFO
	ProductID         string
	PurchaseID        string
	QuantityIn        int64
	QuantityRemaining int64
	PurchasePrice     decimal.Decimal // costo unitario
	BatchDate         time.Time       // clave de orden FIFO
}

// IsAvailable indica si al lote le quedan unidades.
func (b *StockBatch) IsAvailable() bool {
	return b.QuantityRemaining > 0
}
