package dto

import (
	"encoding/json"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/inventory"
)

// FromProduct convierte la entidad a su respuesta. nil -> nil.
func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		MaxQuantity: p.MaxQuantity,
		WarehouseID: p.WarehouseID,
		SupplierID:  p.SupplierID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromWarehouse convierte la entidad a su respuesta.
func FromWarehouse(w *entity.Warehouse) *WarehouseResponse {
	if w == nil {
		return nil
	}
	return &WarehouseResponse{ID: w.ID, Name: w.Name, Location: w.Location, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt}
}

// FromSupplier convierte la entidad a su respuesta.
func FromSupplier(s *entity.Supplier) *SupplierResponse {
	if s == nil {
		return nil
	}
	return &SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromCustomer convierte la entidad a su respuesta.
func FromCustomer(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// FromBatch convierte un lote a su respuesta.
func FromBatch(b *entity.StockBatch) *StockBatchResponse {
	if b == nil {
		return nil
	}
	return &StockBatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		PurchaseID:        b.PurchaseID,
		QuantityIn:        b.QuantityIn,
		QuantityRemaining: b.QuantityRemaining,
		PurchasePrice:     b.PurchasePrice,
		BatchDate:         b.BatchDate,
	}
}

// FromMovement convierte un movimiento a su respuesta.
func FromMovement(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Type:      m.Type,
		Reference: m.Reference,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// FromPurchase convierte la compra a su respuesta (sin anidados).
func FromPurchase(p *entity.Purchase) *PurchaseResponse {
	if p == nil {
		return nil
	}
	return &PurchaseResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		SupplierID:        p.SupplierID,
		PurchasedQuantity: p.PurchasedQuantity,
		PurchasePrice:     p.PurchasePrice,
		TotalCost:         p.TotalCost(),
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
	}
}

// FromSale convierte la venta a su respuesta. Profit se deriva del COGS almacenado.
func FromSale(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	return &SaleResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		CustomerID:      s.CustomerID,
		SoldQuantity:    s.SoldQuantity,
		SalePrice:       s.SalePrice,
		Revenue:         s.Revenue(),
		CostOfGoodsSold: s.CostOfGoodsSold,
		Profit:          s.Profit(),
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
}

// FromConsumptions convierte el plan FIFO aplicado a su detalle por lote.
func FromConsumptions(cs []inventory.BatchConsumption) []BatchConsumptionResponse {
	out := make([]BatchConsumptionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, BatchConsumptionResponse{
			BatchID:  c.BatchID,
			Quantity: c.Quantity,
			UnitCost: c.UnitCost,
			Cost:     c.Cost(),
		})
	}
	return out
}

// FromActivityLog convierte una entrada de auditoría; Details inválido se omite.
func FromActivityLog(l *entity.ActivityLog) ActivityLogResponse {
	resp := ActivityLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		EntityName: l.EntityName,
		CreatedAt:  l.CreatedAt,
	}
	if len(l.Details) > 0 {
		var details map[string]any
		if err := json.Unmarshal(l.Details, &details); err == nil {
			resp.Details = details
		}
	}
	return resp
}

// FromUser convierte el usuario (sin hash).
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
