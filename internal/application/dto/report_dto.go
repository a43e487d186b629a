package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportRow fila del reporte de rentabilidad por producto.
type SalesReportRow struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	SaleCount   int             `json:"sale_count"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	Profit      decimal.Decimal `json:"profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// SalesReportResponse reporte de ventas del período con totales.
type SalesReportResponse struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Rows         []SalesReportRow `json:"rows"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	TotalCOGS    decimal.Decimal  `json:"total_cogs"`
	TotalProfit  decimal.Decimal  `json:"total_profit"`
}

// LowStockRow producto bajo mínimo con la cantidad sugerida de reposición.
type LowStockRow struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	ProductName  string `json:"product_name"`
	Quantity     int64  `json:"quantity"`
	MinQuantity  int64  `json:"min_quantity"`
	MaxQuantity  int64  `json:"max_quantity"`
	SuggestedQty int64  `json:"suggested_qty"`
	Priority     int    `json:"priority"` // 1 = más urgente
}

// StockValuationRow valor FIFO del inventario por producto.
type StockValuationRow struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
}

// StockValuationResponse valor total del inventario.
type StockValuationResponse struct {
	Rows       []StockValuationRow `json:"rows"`
	TotalValue decimal.Decimal     `json:"total_value"`
}

// ActivityLogResponse salida de una entrada de auditoría.
type ActivityLogResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	EntityName string         `json:"entity_name"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityLogListResponse lista paginada de auditoría.
type ActivityLogListResponse struct {
	Items []ActivityLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
