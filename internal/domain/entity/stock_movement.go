package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada (compra)
	MovementTypeOUT = "OUT" // salida (venta)
)

// StockMovement registro append-only de un cambio de cantidad. Nunca se modifica ni se elimina.
type StockMovement struct {
	ID        string
	ProductID string
	Quantity  int64  // positivo en IN, negativo en OUT
	Type      string // IN, OUT
	Reference string // id de la compra o venta que originó el movimiento
	CreatedBy string // UserID (opcional)
	CreatedAt time.Time
}
