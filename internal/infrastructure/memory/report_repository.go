package memory

import (
	"context"
	"sort"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados sobre la foto confirmada.
type ReportRepo struct{ a access }

// SalesSummary agrupa ventas de [from, to) por producto.
func (r *ReportRepo) SalesSummary(_ context.Context, from, to time.Time) ([]repository.SalesSummaryRow, error) {
	var out []repository.SalesSummaryRow
	err := r.a.read(func(st *state) error {
		byProduct := map[string]*repository.SalesSummaryRow{}
		for _, s := range st.sales {
			if !inRange(s.CreatedAt, &from, &to) {
				continue
			}
			row, ok := byProduct[s.ProductID]
			if !ok {
				row = &repository.SalesSummaryRow{ProductID: s.ProductID, Revenue: decimal.Zero, COGS: decimal.Zero}
				if p, ok := st.products[s.ProductID]; ok {
					row.SKU, row.Name = p.SKU, p.Name
				}
				byProduct[s.ProductID] = row
			}
			row.SaleCount++
			row.UnitsSold += s.SoldQuantity
			row.Revenue = row.Revenue.Add(s.Revenue())
			row.COGS = row.COGS.Add(s.CostOfGoodsSold)
		}
		out = make([]repository.SalesSummaryRow, 0, len(byProduct))
		for _, row := range byProduct {
			out = append(out, *row)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		return nil
	})
	return out, err
}

// LowStock productos con mínimo configurado y cantidad en o bajo él.
func (r *ReportRepo) LowStock(_ context.Context) ([]repository.LowStockRow, error) {
	var out []repository.LowStockRow
	err := r.a.read(func(st *state) error {
		out = make([]repository.LowStockRow, 0)
		for _, p := range st.products {
			if !p.IsBelowMinimum() {
				continue
			}
			out = append(out, repository.LowStockRow{
				ProductID:   p.ID,
				SKU:         p.SKU,
				Name:        p.Name,
				Quantity:    p.Quantity,
				MinQuantity: p.MinQuantity,
				MaxQuantity: p.MaxQuantity,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		return nil
	})
	return out, err
}

// StockValuation Σ remaining × purchase_price por producto con stock.
func (r *ReportRepo) StockValuation(_ context.Context) ([]repository.StockValuationRow, error) {
	var out []repository.StockValuationRow
	err := r.a.read(func(st *state) error {
		byProduct := map[string]*repository.StockValuationRow{}
		for _, b := range st.batches {
			if b.QuantityRemaining <= 0 {
				continue
			}
			row, ok := byProduct[b.ProductID]
			if !ok {
				row = &repository.StockValuationRow{ProductID: b.ProductID, Value: decimal.Zero}
				if p, ok := st.products[b.ProductID]; ok {
					row.SKU, row.Name = p.SKU, p.Name
				}
				byProduct[b.ProductID] = row
			}
			row.Quantity += b.QuantityRemaining
			row.Value = row.Value.Add(b.PurchasePrice.Mul(decimal.NewFromInt(b.QuantityRemaining)))
		}
		out = make([]repository.StockValuationRow, 0, len(byProduct))
		for _, row := range byProduct {
			out = append(out, *row)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		return nil
	})
	return out, err
}
