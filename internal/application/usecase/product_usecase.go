package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos. Quantity se maneja solo vía compras y ventas.
type ProductUseCase struct {
	repo       repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	audit      Auditor
}

// NewProductUseCase construye el caso de uso. audit puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	suppliers repository.SupplierRepository,
	audit Auditor,
) *ProductUseCase {
	if audit == nil {
		audit = nopAuditor{}
	}
	return &ProductUseCase{repo: repo, warehouses: warehouses, suppliers: suppliers, audit: audit}
}

// Create crea un nuevo producto. Quantity inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("sku y name son obligatorios")
	}
	if err := validateStockRange(in.Price, in.MinQuantity, in.MaxQuantity); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkReferences(ctx, in.WarehouseID, in.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    0,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.record(userID, "CREATE", product)
	return dto.FromProduct(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return dto.FromProduct(product), nil
}

// Update actualiza datos de catálogo. No permite modificar Quantity.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Invalid("name no puede quedar vacío")
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		product.MaxQuantity = *in.MaxQuantity
	}
	if in.WarehouseID != nil {
		product.WarehouseID = *in.WarehouseID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if err := validateStockRange(product.Price, product.MinQuantity, product.MaxQuantity); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, product.WarehouseID, product.SupplierID); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.record(userID, "UPDATE", product)
	return dto.FromProduct(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.FromProduct(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func (uc *ProductUseCase) checkReferences(ctx context.Context, warehouseID, supplierID string) error {
	if warehouseID != "" {
		wh, err := uc.warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.NotFound("bodega", warehouseID)
		}
	}
	if supplierID != "" {
		s, err := uc.suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("proveedor", supplierID)
		}
	}
	return nil
}

func (uc *ProductUseCase) record(userID, action string, p *entity.Product) {
	details, _ := json.Marshal(map[string]any{"sku": p.SKU, "price": p.Price.String()})
	uc.audit.Record(&entity.ActivityLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		EntityType: "product",
		EntityID:   p.ID,
		EntityName: p.Name,
		Details:    details,
		CreatedAt:  time.Now(),
	})
}

func validateStockRange(price decimal.Decimal, minQty, maxQty int64) error {
	if price.IsNegative() {
		return domain.Invalid("price no puede ser negativo")
	}
	if minQty < 0 || maxQty < 0 {
		return domain.Invalid("min_quantity y max_quantity no pueden ser negativos")
	}
	if maxQty > 0 && maxQty < minQty {
		return domain.Invalid("max_quantity debe ser mayor o igual que min_quantity")
	}
	return nil
}
