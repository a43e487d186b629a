package inventory_test

import (
	"context"
	"testing"

	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchase_CreaLoteStockYMovimiento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.purchase(t, 12, "7.35")

	assert.Equal(t, int64(12), resp.PurchasedQuantity)
	assert.Equal(t, "88.2", resp.TotalCost.String())
	require.NotNil(t, resp.Product)
	assert.Equal(t, int64(12), resp.Product.Quantity)
	require.NotNil(t, resp.Supplier)
	assert.Equal(t, f.supplier.ID, resp.Supplier.ID)

	batches, err := f.store.Batches().ListByProduct(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	b := batches[0]
	assert.Equal(t, resp.ID, b.PurchaseID)
	assert.Equal(t, int64(12), b.QuantityIn)
	assert.Equal(t, int64(12), b.QuantityRemaining)
	assert.True(t, decimal.RequireFromString("7.35").Equal(b.PurchasePrice))
	require.NotNil(t, resp.Batch)
	assert.Equal(t, b.ID, resp.Batch.ID)

	movs, err := f.store.Movements().ListByProduct(ctx, f.product.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, int64(12), movs[0].Quantity)
	assert.Equal(t, resp.ID, movs[0].Reference)
	assert.Equal(t, "user-1", movs[0].CreatedBy)

	f.requireLedgerConsistent(t)
}

func TestCreatePurchase_Validacion(t *testing.T) {
	f := newFixture(t)
	price := decimal.NewFromInt(10)
	negative := decimal.NewFromInt(-1)

	cases := map[string]dto.CreatePurchaseRequest{
		"sin proveedor":   {ProductID: f.product.ID, PurchasedQuantity: 1, PurchasePrice: &price},
		"sin producto":    {SupplierID: f.supplier.ID, PurchasedQuantity: 1, PurchasePrice: &price},
		"cantidad cero":   {SupplierID: f.supplier.ID, ProductID: f.product.ID, PurchasedQuantity: 0, PurchasePrice: &price},
		"cantidad < 0":    {SupplierID: f.supplier.ID, ProductID: f.product.ID, PurchasedQuantity: -2, PurchasePrice: &price},
		"sin precio":      {SupplierID: f.supplier.ID, ProductID: f.product.ID, PurchasedQuantity: 1},
		"precio negativo": {SupplierID: f.supplier.ID, ProductID: f.product.ID, PurchasedQuantity: 1, PurchasePrice: &negative},
	}
	uc := inventory.NewCreatePurchaseUseCase(f.deps)
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), "", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, snapshot{}, f.snapshot(t))
}

func TestCreatePurchase_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	price := decimal.NewFromInt(10)
	uc := inventory.NewCreatePurchaseUseCase(f.deps)

	_, err := uc.Execute(context.Background(), "", dto.CreatePurchaseRequest{
		SupplierID: "no-existe", ProductID: f.product.ID, PurchasedQuantity: 1, PurchasePrice: &price,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(context.Background(), "", dto.CreatePurchaseRequest{
		SupplierID: f.supplier.ID, ProductID: "no-existe", PurchasedQuantity: 1, PurchasePrice: &price,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePurchase_PrecioCeroPermitido(t *testing.T) {
	f := newFixture(t)
	resp := f.purchase(t, 3, "0")
	assert.True(t, resp.TotalCost.IsZero())
	f.requireLedgerConsistent(t)
}
