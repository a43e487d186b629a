package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesSummary ventas de [from, to) agrupadas por producto. El costo es el COGS guardado.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) ([]repository.SalesSummaryRow, error) {
	query := `
		SELECT p.id, p.sku, p.name,
		       COUNT(s.id)::int,
		       COALESCE(SUM(s.sold_quantity), 0)::bigint,
		       COALESCE(SUM(s.sold_quantity * s.sale_price), 0),
		       COALESCE(SUM(s.cost_of_goods_sold), 0)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY p.id, p.sku, p.name
		ORDER BY p.sku`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	defer rows.Close()
	out := make([]repository.SalesSummaryRow, 0)
	for rows.Next() {
		var row repository.SalesSummaryRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.SaleCount, &row.UnitsSold, &row.Revenue, &row.COGS); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LowStock productos con mínimo configurado y cantidad en o bajo él.
func (r *ReportRepo) LowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sku, name, quantity, min_quantity, max_quantity
		FROM products
		WHERE min_quantity > 0 AND quantity <= min_quantity
		ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	out := make([]repository.LowStockRow, 0)
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Quantity, &row.MinQuantity, &row.MaxQuantity); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// StockValuation Σ quantity_remaining × purchase_price por producto.
func (r *ReportRepo) StockValuation(ctx context.Context) ([]repository.StockValuationRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name,
		       SUM(b.quantity_remaining)::bigint,
		       SUM(b.quantity_remaining * b.purchase_price)
		FROM stock_batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.quantity_remaining > 0
		GROUP BY p.id, p.sku, p.name
		ORDER BY p.sku`)
	if err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	defer rows.Close()
	out := make([]repository.StockValuationRow, 0)
	for rows.Next() {
		var row repository.StockValuationRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Quantity, &row.Value); err != nil {
			return nil, fmt.Errorf("scan stock valuation: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
