package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryRow agregado de ventas por producto. COGS sale de sales.cost_of_goods_sold (foto FIFO).
type SalesSummaryRow struct {
	ProductID string
	SKU       string
	Name      string
	SaleCount int
	UnitsSold int64
	Revenue   decimal.Decimal
	COGS      decimal.Decimal
}

// LowStockRow producto en o por debajo de su mínimo.
type LowStockRow struct {
	ProductID   string
	SKU         string
	Name        string
	Quantity    int64
	MinQuantity int64
	MaxQuantity int64
}

// StockValuationRow valor del inventario por producto: Σ remaining × purchase_price de sus lotes.
type StockValuationRow struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int64
	Value     decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes tabulares.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) ([]SalesSummaryRow, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
	StockValuation(ctx context.Context) ([]StockValuationRow, error)
}
