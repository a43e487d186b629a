package inventory

import (
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchConsumption instrucción de drenado: cuántas unidades tomar de un lote y a qué costo unitario.
type BatchConsumption struct {
	BatchID  string
	Quantity int64
	UnitCost decimal.Decimal
}

// Cost costo total de la porción consumida del lote.
func (c BatchConsumption) Cost() decimal.Decimal {
	return c.UnitCost.Mul(decimal.NewFromInt(c.Quantity))
}

// FIFOPlan resultado del motor de costeo: costo total y consumos por lote, en orden FIFO.
type FIFOPlan struct {
	TotalCost    decimal.Decimal
	Consumptions []BatchConsumption
}

// Quantity unidades cubiertas por el plan.
func (p FIFOPlan) Quantity() int64 {
	var total int64
	for _, c := range p.Consumptions {
		total += c.Quantity
	}
	return total
}

// AverageUnitCost costo unitario promedio del plan (cero si el plan está vacío).
func (p FIFOPlan) AverageUnitCost() decimal.Decimal {
	qty := p.Quantity()
	if qty == 0 {
		return decimal.Zero
	}
	return p.TotalCost.Div(decimal.NewFromInt(qty))
}

// PlanFIFO calcula el costo de vender `requested` unidades consumiendo los lotes en el orden recibido
// (el llamador los entrega ordenados por BatchDate y Seq ascendente). No modifica los lotes.
// Si los lotes no alcanzan devuelve un *domain.StockError (errors.Is -> domain.ErrInsufficientStock).
func PlanFIFO(batches []*entity.StockBatch, requested int64) (FIFOPlan, error) {
	if requested <= 0 {
		return FIFOPlan{}, domain.Invalid("la cantidad solicitada debe ser mayor que 0")
	}

	plan := FIFOPlan{TotalCost: decimal.Zero}
	remaining := requested
	var productID string

	for _, b := range batches {
		if remaining == 0 {
			break
		}
		if b == nil || b.QuantityRemaining <= 0 {
			continue
		}
		productID = b.ProductID
		take := min(remaining, b.QuantityRemaining)
		c := BatchConsumption{BatchID: b.ID, Quantity: take, UnitCost: b.PurchasePrice}
		plan.Consumptions = append(plan.Consumptions, c)
		plan.TotalCost = plan.TotalCost.Add(c.Cost())
		remaining -= take
	}

	if remaining > 0 {
		return FIFOPlan{}, &domain.StockError{
			ProductID: productID,
			Available: requested - remaining,
			Requested: requested,
		}
	}
	return plan, nil
}

// Profit ganancia de una venta: cantidad * precio - costo.
func Profit(quantity int64, salePrice, cost decimal.Decimal) decimal.Decimal {
	return salePrice.Mul(decimal.NewFromInt(quantity)).Sub(cost)
}
