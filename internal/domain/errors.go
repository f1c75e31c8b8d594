package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Errores de dominio. Las categorías se comparan con errors.Is; los errores
// tipados (ValidationError, InsufficientStockError) quedan marcados con su categoría.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrTransactionFailure = errors.New("falló la transacción")

	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrBusinessNotActive  = errors.New("la empresa no está aprobada")
)

// ── Validación ───────────────────────────────────────────────────────────────

// ValidationError agrupa los campos inválidos de una petición.
type ValidationError struct {
	Message string
	Details map[string]string
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{
		Message: msg,
		Details: map[string]string{field: msg},
	}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Details[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ── Stock insuficiente ───────────────────────────────────────────────────────

// StockShortage describe una línea que no puede despacharse con el stock actual.
type StockShortage struct {
	LineIndex   int    `json:"lineIndex"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError lleva todas las líneas que fallaron, no solo la primera.
type InsufficientStockError struct {
	Items []StockShortage
}

func (e *InsufficientStockError) Error() string {
	if len(e.Items) == 1 {
		it := e.Items[0]
		return fmt.Sprintf("%s: %s (solicitado %d, disponible %d)",
			ErrInsufficientStock.Error(), it.ProductName, it.Requested, it.Available)
	}
	return fmt.Sprintf("%s en %d líneas", ErrInsufficientStock.Error(), len(e.Items))
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ── Fallos de almacenamiento ─────────────────────────────────────────────────

// IsDomainError indica si err ya pertenece a una categoría de dominio.
func IsDomainError(err error) bool {
	return errors.IsAny(err,
		ErrValidation, ErrNotFound, ErrInsufficientStock, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrDuplicate, ErrTransactionFailure,
		ErrUserNotFound, ErrEmailAlreadyExists, ErrBusinessNotActive,
	)
}

// AsTransactionFailure marca un error de la base de datos como TransactionFailure.
// Los errores de dominio se devuelven intactos.
func AsTransactionFailure(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return errors.Mark(errors.WithHint(err, "la operación no se confirmó; puede reintentarse"), ErrTransactionFailure)
}
