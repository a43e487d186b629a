package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/primegestor/primegestor-api/internal/application/report"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	sales     []repository.SalesSummaryRow
	low       []repository.LowStockRow
	valuation []repository.StockValuationRow
	from, to  time.Time
}

func (r *fakeReportRepo) SalesSummary(_ context.Context, from, to time.Time) ([]repository.SalesSummaryRow, error) {
	r.from, r.to = from, to
	return r.sales, nil
}

func (r *fakeReportRepo) LowStock(context.Context) ([]repository.LowStockRow, error) {
	return r.low, nil
}

func (r *fakeReportRepo) StockValuation(context.Context) ([]repository.StockValuationRow, error) {
	return r.valuation, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSalesSummary_TotalesYMargen(t *testing.T) {
	repo := &fakeReportRepo{sales: []repository.SalesSummaryRow{
		{ProductID: "a", SKU: "A", Name: "Azúcar", SaleCount: 2, UnitsSold: 10, Revenue: dec("100"), COGS: dec("60")},
		{ProductID: "b", SKU: "B", Name: "Arroz", SaleCount: 1, UnitsSold: 3, Revenue: dec("300"), COGS: dec("150")},
	}}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	resp, err := report.NewReportUseCase(repo).SalesSummary(context.Background(), &from, &to)
	require.NoError(t, err)

	assert.Equal(t, from, repo.from)
	assert.Equal(t, to, repo.to)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "B", resp.Rows[0].SKU, "mayor ganancia primero")
	assert.Equal(t, "150", resp.Rows[0].Profit.String())
	assert.Equal(t, "50", resp.Rows[0].MarginPct.String())
	assert.Equal(t, "40", resp.Rows[1].MarginPct.String())
	assert.Equal(t, "400", resp.TotalRevenue.String())
	assert.Equal(t, "210", resp.TotalCOGS.String())
	assert.Equal(t, "190", resp.TotalProfit.String())
}

func TestSalesSummary_RangoInvalido(t *testing.T) {
	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := report.NewReportUseCase(&fakeReportRepo{}).SalesSummary(context.Background(), &from, &to)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_SugerenciaYPrioridad(t *testing.T) {
	repo := &fakeReportRepo{low: []repository.LowStockRow{
		{ProductID: "a", SKU: "A", Quantity: 8, MinQuantity: 10, MaxQuantity: 50},
		{ProductID: "b", SKU: "B", Quantity: 0, MinQuantity: 4},
	}}
	rows, err := report.NewReportUseCase(repo).LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "B", rows[0].SKU)
	assert.Equal(t, 1, rows[0].Priority)
	assert.Equal(t, int64(6), rows[0].SuggestedQty, "sin máximo: 1.5 veces el mínimo")
	assert.Equal(t, "A", rows[1].SKU)
	assert.Equal(t, int64(42), rows[1].SuggestedQty)
}

func TestStockValuation_Total(t *testing.T) {
	repo := &fakeReportRepo{valuation: []repository.StockValuationRow{
		{ProductID: "a", SKU: "A", Quantity: 3, Value: dec("30.5")},
		{ProductID: "b", SKU: "B", Quantity: 1, Value: dec("0.25")},
	}}
	resp, err := report.NewReportUseCase(repo).StockValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "30.75", resp.TotalValue.String())
	assert.Len(t, resp.Rows, 2)
}
