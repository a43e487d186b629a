package inventory

import (
	"context"
	"time"

	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

// QueryUseCase lecturas de ventas, compras, lotes y movimientos. El COGS de una venta se devuelve
// tal como se guardó; nunca se recalcula desde los lotes.
type QueryUseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	purchases repository.PurchaseRepository
	batches   repository.StockBatchRepository
	movements repository.StockMovementRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
	batches repository.StockBatchRepository,
	movements repository.StockMovementRepository,
) *QueryUseCase {
	return &QueryUseCase{products: products, sales: sales, purchases: purchases, batches: batches, movements: movements}
}

// GetSale obtiene una venta por ID.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", id)
	}
	return dto.FromSale(sale), nil
}

// ListSales lista ventas, opcionalmente filtradas por rango de fechas.
func (uc *QueryUseCase) ListSales(ctx context.Context, from, to *time.Time, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.sales.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *dto.FromSale(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// GetPurchase obtiene una compra por ID.
func (uc *QueryUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("compra", id)
	}
	return dto.FromPurchase(p), nil
}

// ListPurchases lista compras, opcionalmente filtradas por rango de fechas.
func (uc *QueryUseCase) ListPurchases(ctx context.Context, from, to *time.Time, limit, offset int) (*dto.PurchaseListResponse, error) {
	list, err := uc.purchases.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.FromPurchase(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ListBatches devuelve todos los lotes del producto en orden FIFO, incluidos los agotados.
func (uc *QueryUseCase) ListBatches(ctx context.Context, productID string) ([]dto.StockBatchResponse, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := uc.batches.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockBatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *dto.FromBatch(b))
	}
	return out, nil
}

// ListMovements devuelve los movimientos del producto, más recientes primero.
func (uc *QueryUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) (*dto.MovementListResponse, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := uc.movements.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.FromMovement(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *QueryUseCase) requireProduct(ctx context.Context, productID string) error {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("producto", productID)
	}
	return nil
}
