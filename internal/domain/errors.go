package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidMovement    = errors.New("movimiento inválido")
	ErrConcurrencyTimeout = errors.New("tiempo de espera agotado al bloquear el stock")
	ErrLineageNotFound    = errors.New("trazabilidad no encontrada")
)

// InvalidMovementError rechazo previo a cualquier mutación: tipo desconocido,
// referencia de material/ubicación inexistente, cantidad o signo incoherente.
type InvalidMovementError struct {
	Field  string
	Reason string
}

func (e *InvalidMovementError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("movimiento inválido: %s", e.Reason)
	}
	return fmt.Sprintf("movimiento inválido: %s: %s", e.Field, e.Reason)
}

func (e *InvalidMovementError) Unwrap() error { return ErrInvalidMovement }

// NewInvalidMovement atajo para construir un InvalidMovementError.
func NewInvalidMovement(field, reason string) *InvalidMovementError {
	return &InvalidMovementError{Field: field, Reason: reason}
}

// InsufficientStockWarning aviso no fatal del modo degradado: la salida se recortó
// a lo disponible y el stock quedó en cero. Se devuelve junto al resultado, nunca como error.
type InsufficientStockWarning struct {
	MaterialID string
	LocationID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
	Shortfall  decimal.Decimal
}

func (w *InsufficientStockWarning) Error() string {
	return fmt.Sprintf("stock insuficiente para material %s en ubicación %s: disponible %s, solicitado %s (faltante %s)",
		w.MaterialID, w.LocationID, w.Available.String(), w.Requested.String(), w.Shortfall.String())
}

// String permite usar el aviso directamente en listas de mensajes.
func (w *InsufficientStockWarning) String() string { return w.Error() }

// ConcurrencyTimeoutError no se obtuvo el bloqueo de la clave a tiempo; reintentable.
type ConcurrencyTimeoutError struct {
	Key   string
	Cause error
}

func (e *ConcurrencyTimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bloqueo no obtenido para %s: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("bloqueo no obtenido para %s", e.Key)
}

func (e *ConcurrencyTimeoutError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConcurrencyTimeout}
	}
	return []error{ErrConcurrencyTimeout, e.Cause}
}

// LineageNotFoundError algún paso obligatorio del recorrido no devolvió filas.
type LineageNotFoundError struct {
	Direction string
	Step      string
	Code      string
	BatchNo   string
	Reason    string
}

func (e *LineageNotFoundError) Error() string {
	return e.Reason
}

func (e *LineageNotFoundError) Unwrap() error { return ErrLineageNotFound }

// IsRetryable indica si el error puede resolverse reintentando la operación completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyTimeout)
}
