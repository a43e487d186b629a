package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta registrada. CostOfGoodsSold es una foto FIFO tomada al crear la venta y no se recalcula.
type Sale struct {
	ID              string
	ProductID       string
	CustomerID      string
	SoldQuantity    int64
	SalePrice       decimal.Decimal // precio unitario de venta
	CostOfGoodsSold decimal.Decimal
	CreatedBy       string
	CreatedAt       time.Time
}

// Revenue ingreso bruto de la venta.
func (s *Sale) Revenue() decimal.Decimal {
	return s.SalePrice.Mul(decimal.NewFromInt(s.SoldQuantity))
}

// Profit ganancia derivada: ingreso - costo congelado.
func (s *Sale) Profit() decimal.Decimal {
	return s.Revenue().Sub(s.CostOfGoodsSold)
}
