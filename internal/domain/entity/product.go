package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es el total desnormalizado de QuantityRemaining de sus lotes; solo lo modifican compras y ventas.
type Product struct {
	ID          string
	Name        string
	SKU         string // único
	Description string
	Price       decimal.Decimal // precio de venta vigente (no es costo)
	Quantity    int64
	MinQuantity int64
	MaxQuantity int64
	WarehouseID string // opcional
	SupplierID  string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsBelowMinimum indica si el stock actual está en o por debajo del mínimo configurado.
func (p *Product) IsBelowMinimum() bool {
	return p.MinQuantity > 0 && p.Quantity <= p.MinQuantity
}
