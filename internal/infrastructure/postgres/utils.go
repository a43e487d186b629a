package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/primegestor/primegestor-api/internal/domain"
)

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isCheckViolation verifica si un error viene de un CHECK (23514).
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isInvalidText detecta ids mal formados (p. ej. un uuid inválido): se tratan como inexistentes.
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidText
}

// isContention indica timeout de bloqueo, fallo de serialización o deadlock.
func isContention(err error) bool {
	switch pgCode(err) {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// translateTxError envuelve los conflictos de concurrencia en domain.ErrContention para que
// el coordinador pueda reintentar la transacción completa.
func translateTxError(err error) error {
	if err == nil || errors.Is(err, domain.ErrContention) {
		return err
	}
	if isContention(err) {
		return fmt.Errorf("%w: %w", domain.ErrContention, err)
	}
	return err
}
