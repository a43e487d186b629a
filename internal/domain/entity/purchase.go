package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase compra de reposición. Cada compra produce exactamente un StockBatch.
type Purchase struct {
	ID                string
	ProductID         string
	SupplierID        string
	PurchasedQuantity int64
	PurchasePrice     decimal.Decimal // costo unitario
	CreatedBy         string
	CreatedAt         time.Time
}

// TotalCost costo total de la compra.
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(p.PurchasedQuantity))
}
