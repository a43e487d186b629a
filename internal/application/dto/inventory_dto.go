package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID        string           `json:"supplier_id" validate:"required"`
	ProductID         string           `json:"product_id" validate:"required"`
	PurchasedQuantity int64            `json:"purchased_quantity" validate:"gt=0"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price" validate:"required"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID   string           `json:"customer_id" validate:"required"`
	ProductID    string           `json:"product_id" validate:"required"`
	SoldQuantity int64            `json:"sold_quantity" validate:"gt=0"`
	SalePrice    *decimal.Decimal `json:"sale_price" validate:"required"`
}

// StockBatchResponse salida de un lote.
type StockBatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	PurchaseID        string          `json:"purchase_id"`
	QuantityIn        int64           `json:"quantity_in"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	BatchDate         time.Time       `json:"batch_date"`
}

// BatchConsumptionResponse unidades tomadas de un lote en una venta.
type BatchConsumptionResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
}

// PurchaseResponse salida de una compra con producto, proveedor y lote anidados.
type PurchaseResponse struct {
	ID                string              `json:"id"`
	ProductID         string              `json:"product_id"`
	SupplierID        string              `json:"supplier_id"`
	PurchasedQuantity int64               `json:"purchased_quantity"`
	PurchasePrice     decimal.Decimal     `json:"purchase_price"`
	TotalCost         decimal.Decimal     `json:"total_cost"`
	CreatedBy         string              `json:"created_by,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	Product           *ProductResponse    `json:"product,omitempty"`
	Supplier          *SupplierResponse   `json:"supplier,omitempty"`
	Batch             *StockBatchResponse `json:"batch,omitempty"`
}

// SaleResponse salida de una venta. CostOfGoodsSold es el valor congelado al vender; Profit se deriva de él.
type SaleResponse struct {
	ID              string                     `json:"id"`
	ProductID       string                     `json:"product_id"`
	CustomerID      string                     `json:"customer_id"`
	SoldQuantity    int64                      `json:"sold_quantity"`
	SalePrice       decimal.Decimal            `json:"sale_price"`
	Revenue         decimal.Decimal            `json:"revenue"`
	CostOfGoodsSold decimal.Decimal            `json:"cost_of_goods_sold"`
	Profit          decimal.Decimal            `json:"profit"`
	CreatedBy       string                     `json:"created_by,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	Product         *ProductResponse           `json:"product,omitempty"`
	Customer        *CustomerResponse          `json:"customer,omitempty"`
	Consumptions    []BatchConsumptionResponse `json:"consumptions,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockMovementResponse salida de un movimiento de inventario.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Type      string    `json:"type"`
	Reference string    `json:"reference"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
