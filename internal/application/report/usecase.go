package report

import (
	"context"
	"sort"
	"time"

	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportUseCase reportes de rentabilidad, reposición y valorización del inventario.
type ReportUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo, now: time.Now}
}

// SalesSummary agrega ventas por producto en [from, to). El costo es el COGS guardado en cada venta.
// Sin fechas se usan los últimos 30 días.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, from, to *time.Time) (*dto.SalesReportResponse, error) {
	end := uc.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	if !start.Before(end) {
		return nil, domain.Invalid("from debe ser anterior a to")
	}

	rows, err := uc.repo.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	resp := &dto.SalesReportResponse{
		From:         start,
		To:           end,
		Rows:         make([]dto.SalesReportRow, 0, len(rows)),
		TotalRevenue: decimal.Zero,
		TotalCOGS:    decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for _, r := range rows {
		profit := r.Revenue.Sub(r.COGS)
		margin := decimal.Zero
		if r.Revenue.GreaterThan(decimal.Zero) {
			margin = profit.Div(r.Revenue).Mul(hundred).Round(2)
		}
		resp.Rows = append(resp.Rows, dto.SalesReportRow{
			ProductID:   r.ProductID,
			SKU:         r.SKU,
			ProductName: r.Name,
			SaleCount:   r.SaleCount,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue,
			COGS:        r.COGS,
			Profit:      profit,
			MarginPct:   margin,
		})
		resp.TotalRevenue = resp.TotalRevenue.Add(r.Revenue)
		resp.TotalCOGS = resp.TotalCOGS.Add(r.COGS)
		resp.TotalProfit = resp.TotalProfit.Add(profit)
	}

	// Mayor ganancia primero; desempate por SKU para un orden estable.
	sort.SliceStable(resp.Rows, func(i, j int) bool {
		a, b := resp.Rows[i], resp.Rows[j]
		if !a.Profit.Equal(b.Profit) {
			return a.Profit.GreaterThan(b.Profit)
		}
		return a.SKU < b.SKU
	})
	return resp, nil
}

// LowStock devuelve los productos en o bajo su mínimo con la cantidad sugerida de pedido.
// La sugerencia lleva el stock hasta MaxQuantity; sin máximo configurado, hasta 1.5 veces el mínimo.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockRow, error) {
	rows, err := uc.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockRow, 0, len(rows))
	for _, r := range rows {
		target := r.MaxQuantity
		if target <= r.MinQuantity {
			target = r.MinQuantity + (r.MinQuantity+1)/2
		}
		suggested := target - r.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockRow{
			ProductID:    r.ProductID,
			SKU:          r.SKU,
			ProductName:  r.Name,
			Quantity:     r.Quantity,
			MinQuantity:  r.MinQuantity,
			MaxQuantity:  r.MaxQuantity,
			SuggestedQty: suggested,
		})
	}

	// Primero el mayor déficit relativo al mínimo, luego el mayor faltante absoluto.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra := deficitRatio(a.Quantity, a.MinQuantity)
		rb := deficitRatio(b.Quantity, b.MinQuantity)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.MinQuantity-a.Quantity > b.MinQuantity-b.Quantity
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// StockValuation valor del inventario a costo FIFO: Σ remaining × purchase_price por producto.
func (uc *ReportUseCase) StockValuation(ctx context.Context) (*dto.StockValuationResponse, error) {
	rows, err := uc.repo.StockValuation(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockValuationResponse{Rows: make([]dto.StockValuationRow, 0, len(rows)), TotalValue: decimal.Zero}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.StockValuationRow{
			ProductID:   r.ProductID,
			SKU:         r.SKU,
			ProductName: r.Name,
			Quantity:    r.Quantity,
			Value:       r.Value,
		})
		resp.TotalValue = resp.TotalValue.Add(r.Value)
	}
	return resp, nil
}

func deficitRatio(qty, minQty int64) decimal.Decimal {
	if minQty <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(minQty - qty).Div(decimal.NewFromInt(minQty))
}
