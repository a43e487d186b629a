package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.Invalid("sold_quantity debe ser mayor que 0"), fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", domain.NotFound("producto", "p-1"), fiber.StatusNotFound, "NOT_FOUND"},
		{"stock insuficiente", &domain.StockError{ProductID: "p-1", Available: 2, Requested: 5}, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"invariante", fmt.Errorf("%w: lotes 3", domain.ErrInvariantViolation), fiber.StatusInternalServerError, "INTERNAL"},
		{"contención", fmt.Errorf("%w: 55P03", domain.ErrContention), fiber.StatusConflict, "CONTENTION"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"email existente", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"fiber 404", fiber.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"desconocido", errors.New("pool cerrado"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			resp, ok := body.(dto.ErrorResponse)
			if assert.True(t, ok) {
				assert.Equal(t, tc.code, resp.Code)
			}
		})
	}
}

func TestMapError_StockErrorIncluyeCantidades(t *testing.T) {
	_, body := mapError(&domain.StockError{ProductID: "p-1", Available: 2, Requested: 5})
	msg := body.(dto.ErrorResponse).Message
	assert.Contains(t, msg, "disponible 2")
	assert.Contains(t, msg, "solicitado 5")
}

func TestMapError_InvarianteNoExponeDetalles(t *testing.T) {
	_, body := mapError(fmt.Errorf("%w: producto p-1 cantidad 5, lotes 0", domain.ErrInvariantViolation))
	msg := body.(dto.ErrorResponse).Message
	assert.NotContains(t, msg, "lotes")
	assert.NotContains(t, msg, "p-1")
}

func TestMapError_ValidacionPorCampo(t *testing.T) {
	status, body := mapError(&validationError{fields: map[string]string{"sold_quantity": "debe ser mayor que 0"}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	resp, ok := body.(dto.ValidationErrorResponse)
	if assert.True(t, ok) {
		assert.Equal(t, "VALIDATION", resp.Code)
		assert.Equal(t, "debe ser mayor que 0", resp.Fields["sold_quantity"])
	}
}
