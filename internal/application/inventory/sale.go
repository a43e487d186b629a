package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateSaleUseCase registra una venta: calcula el costo FIFO, drena lotes, guarda la venta con el
// costo congelado, descuenta el stock y anota un movimiento OUT, todo en una transacción.
type CreateSaleUseCase struct {
	deps Deps
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(deps Deps) *CreateSaleUseCase {
	return &CreateSaleUseCase{deps: deps.withDefaults()}
}

type saleResult struct {
	sale    *entity.Sale
	product *entity.Product
	plan    inventory.FIFOPlan
}

// Execute valida, ejecuta la transacción (con reintentos ante contención) y registra auditoría.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	start := uc.deps.Now()
	resp, err := uc.execute(ctx, userID, in)
	uc.deps.Metrics.ObserveOperation(OperationSale, outcome(err), uc.deps.Now().Sub(start))
	return resp, err
}

func (uc *CreateSaleUseCase) execute(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}

	customer, err := uc.deps.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFound("cliente", in.CustomerID)
	}
	product, err := uc.deps.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}
	// Chequeo rápido sin bloqueo; se repite dentro de la transacción.
	if product.Quantity < in.SoldQuantity {
		return nil, &domain.StockError{ProductID: product.ID, Available: product.Quantity, Requested: in.SoldQuantity}
	}

	release, err := uc.deps.Locker.Lock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result saleResult
	err = withContentionRetry(ctx, uc.deps, OperationSale, func() error {
		return uc.deps.Tx.Run(ctx, func(repos TxRepositories) error {
			r, err := uc.sellInTx(ctx, repos, userID, in)
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

	sale := result.sale
	uc.deps.Log.Info().
		Str("sale_id", sale.ID).
		Str("product_id", sale.ProductID).
		Int64("quantity", sale.SoldQuantity).
		Str("cogs", sale.CostOfGoodsSold.String()).
		Int("batches", len(result.plan.Consumptions)).
		Msg("venta registrada")

	uc.deps.recordAudit(userID, "SALE", "sale", sale.ID, result.product.Name, map[string]any{
		"product_id":         sale.ProductID,
		"customer_id":        sale.CustomerID,
		"quantity":           sale.SoldQuantity,
		"sale_price":         sale.SalePrice.String(),
		"cost_of_goods_sold": sale.CostOfGoodsSold.String(),
		"profit":             sale.Profit().String(),
	})

	resp := dto.FromSale(sale)
	resp.Product = dto.FromProduct(result.product)
	resp.Customer = dto.FromCustomer(customer)
	resp.Consumptions = dto.FromConsumptions(result.plan.Consumptions)
	return resp, nil
}

func (uc *CreateSaleUseCase) sellInTx(ctx context.Context, repos TxRepositories, userID string, in dto.CreateSaleRequest) (saleResult, error) {
	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return saleResult{}, err
	}
	if product == nil {
		return saleResult{}, domain.NotFound("producto", in.ProductID)
	}
	if product.Quantity < in.SoldQuantity {
		return saleResult{}, &domain.StockError{ProductID: product.ID, Available: product.Quantity, Requested: in.SoldQuantity}
	}

	batches, err := repos.Batches.ListAvailable(ctx, product.ID, true)
	if err != nil {
		return saleResult{}, err
	}
	plan, err := inventory.PlanFIFO(batches, in.SoldQuantity)
	if err != nil {
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			// Product.quantity dijo que alcanzaba y los lotes no: el libro está desincronizado.
			uc.deps.Metrics.IncIntegrityViolation()
			uc.deps.Log.Warn().
				Str("product_id", product.ID).
				Int64("product_quantity", product.Quantity).
				Int64("batches_available", stockErr.Available).
				Int64("requested", in.SoldQuantity).
				Msg("integridad: los lotes no cubren la cantidad del producto")
			return saleResult{}, fmt.Errorf("%w: producto %s cantidad %d, lotes %d, solicitado %d",
				domain.ErrInvariantViolation, product.ID, product.Quantity, stockErr.Available, in.SoldQuantity)
		}
		return saleResult{}, err
	}

	for _, c := range plan.Consumptions {
		if err := repos.Batches.Drain(ctx, c.BatchID, c.Quantity); err != nil {
			return saleResult{}, err
		}
	}

	now := uc.deps.Now()
	sale := &entity.Sale{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		CustomerID:      in.CustomerID,
		SoldQuantity:    in.SoldQuantity,
		SalePrice:       *in.SalePrice,
		CostOfGoodsSold: plan.TotalCost,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return saleResult{}, err
	}

	if err := repos.Products.AdjustQuantity(ctx, product.ID, -in.SoldQuantity); err != nil {
		return saleResult{}, err
	}
	product.Quantity -= in.SoldQuantity

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Quantity:  -in.SoldQuantity,
		Type:      entity.MovementTypeOUT,
		Reference: sale.ID,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return saleResult{}, err
	}
	return saleResult{sale: sale, product: product, plan: plan}, nil
}

func validateSale(in dto.CreateSaleRequest) error {
	switch {
	case strings.TrimSpace(in.CustomerID) == "":
		return domain.Invalid("customer_id es obligatorio")
	case strings.TrimSpace(in.ProductID) == "":
		return domain.Invalid("product_id es obligatorio")
	case in.SoldQuantity <= 0:
		return domain.Invalid("sold_quantity debe ser mayor que 0")
	case in.SalePrice == nil:
		return domain.Invalid("sale_price es obligatorio")
	case in.SalePrice.LessThan(decimal.Zero):
		return domain.Invalid("sale_price no puede ser negativo")
	}
	return nil
}
