package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreatePurchaseUseCase registra una compra: crea la compra y su lote, incrementa el stock del producto
// y anota un movimiento IN, todo en una transacción.
type CreatePurchaseUseCase struct {
	deps Deps
}

// NewCreatePurchaseUseCase construye el caso de uso.
func NewCreatePurchaseUseCase(deps Deps) *CreatePurchaseUseCase {
	return &CreatePurchaseUseCase{deps: deps.withDefaults()}
}

type purchaseResult struct {
	purchase *entity.Purchase
	batch    *entity.StockBatch
	product  *entity.Product
}

// Execute valida, ejecuta la transacción (con reintentos ante contención) y registra auditoría.
// userID es opcional y queda como CreatedBy.
func (uc *CreatePurchaseUseCase) Execute(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	start := uc.deps.Now()
	resp, err := uc.execute(ctx, userID, in)
	uc.deps.Metrics.ObserveOperation(OperationPurchase, outcome(err), uc.deps.Now().Sub(start))
	return resp, err
}

func (uc *CreatePurchaseUseCase) execute(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validatePurchase(in); err != nil {
		return nil, err
	}

	supplier, err := uc.deps.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("proveedor", in.SupplierID)
	}
	product, err := uc.deps.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}

	release, err := uc.deps.Locker.Lock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result purchaseResult
	err = withContentionRetry(ctx, uc.deps, OperationPurchase, func() error {
		return uc.deps.Tx.Run(ctx, func(repos TxRepositories) error {
			r, err := uc.purchaseInTx(ctx, repos, userID, in)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Log.Info().
		Str("purchase_id", result.purchase.ID).
		Str("product_id", result.product.ID).
		Int64("quantity", result.purchase.PurchasedQuantity).
		Str("unit_cost", result.purchase.PurchasePrice.String()).
		Msg("compra registrada")

	uc.deps.recordAudit(userID, "PURCHASE", "purchase", result.purchase.ID, result.product.Name, map[string]any{
		"product_id":     result.product.ID,
		"supplier_id":    supplier.ID,
		"quantity":       result.purchase.PurchasedQuantity,
		"purchase_price": result.purchase.PurchasePrice.String(),
		"batch_id":       result.batch.ID,
	})

	resp := dto.FromPurchase(result.purchase)
	resp.Product = dto.FromProduct(result.product)
	resp.Supplier = dto.FromSupplier(supplier)
	resp.Batch = dto.FromBatch(result.batch)
	return resp, nil
}

func (uc *CreatePurchaseUseCase) purchaseInTx(ctx context.Context, repos TxRepositories, userID string, in dto.CreatePurchaseRequest) (purchaseResult, error) {
	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return purchaseResult{}, err
	}
	if product == nil {
		return purchaseResult{}, domain.NotFound("producto", in.ProductID)
	}

	now := uc.deps.Now()
	purchase := &entity.Purchase{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		SupplierID:        in.SupplierID,
		PurchasedQuantity: in.PurchasedQuantity,
		PurchasePrice:     *in.PurchasePrice,
		CreatedBy:         userID,
		CreatedAt:         now,
	}
	if err := repos.Purchases.Create(ctx, purchase); err != nil {
		return purchaseResult{}, err
	}

	batch := &entity.StockBatch{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		PurchaseID:        purchase.ID,
		QuantityIn:        in.PurchasedQuantity,
		QuantityRemaining: in.PurchasedQuantity,
		PurchasePrice:     *in.PurchasePrice,
		BatchDate:         now,
	}
	if err := repos.Batches.Create(ctx, batch); err != nil {
		return purchaseResult{}, err
	}

	if err := repos.Products.AdjustQuantity(ctx, product.ID, in.PurchasedQuantity); err != nil {
		return purchaseResult{}, err
	}
	product.Quantity += in.PurchasedQuantity

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Quantity:  in.PurchasedQuantity,
		Type:      entity.MovementTypeIN,
		Reference: purchase.ID,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return purchaseResult{}, err
	}
	return purchaseResult{purchase: purchase, batch: batch, product: product}, nil
}

func validatePurchase(in dto.CreatePurchaseRequest) error {
	switch {
	case strings.TrimSpace(in.SupplierID) == "":
		return domain.Invalid("supplier_id es obligatorio")
	case strings.TrimSpace(in.ProductID) == "":
		return domain.Invalid("product_id es obligatorio")
	case in.PurchasedQuantity <= 0:
		return domain.Invalid("purchased_quantity debe ser mayor que 0")
	case in.PurchasePrice == nil:
		return domain.Invalid("purchase_price es obligatorio")
	case in.PurchasePrice.LessThan(decimal.Zero):
		return domain.Invalid("purchase_price no puede ser negativo")
	}
	return nil
}
