package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrInvariantViolation indica que los lotes y Product.quantity están desincronizados.
	ErrInvariantViolation = errors.New("violación de invariante de inventario")
	// ErrContention indica un conflicto de bloqueo o serialización; la operación completa puede reintentarse.
	ErrContention = errors.New("conflicto de concurrencia, reintente la operación")
)

// StockError detalla un ErrInsufficientStock con la cantidad disponible y la solicitada.
type StockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// Invalid construye un ErrInvalidInput con el motivo concreto.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// NotFound construye un ErrNotFound indicando el tipo de entidad y su id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}
