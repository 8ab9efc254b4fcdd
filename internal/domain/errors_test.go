package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
)

func TestTypedErrorsWrapSentinels(t *testing.T) {
	ve := domain.NewValidationError("datos inválidos").Add("quantity", "debe ser mayor que 0")
	nf := domain.NewNotFoundError("producto", 9)
	is := &domain.InsufficientStockError{Available: 3, Requested: 5}
	ce := &domain.ConflictError{Message: "código duplicado"}

	assert.ErrorIs(t, fmt.Errorf("increase: %w", ve), domain.ErrInvalidInput)
	assert.ErrorIs(t, fmt.Errorf("get: %w", nf), domain.ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("decrease: %w", is), domain.ErrInsufficientStock)
	assert.ErrorIs(t, ce, domain.ErrConflict)

	var got *domain.InsufficientStockError
	assert.True(t, errors.As(fmt.Errorf("tx: %w", is), &got))
	assert.Equal(t, 3, got.Available)
	assert.Equal(t, 5, got.Requested)
}

func TestValidationError_Message(t *testing.T) {
	ve := domain.NewValidationError("datos inválidos")
	assert.False(t, ve.HasErrors())
	assert.Equal(t, "datos inválidos", ve.Error())

	ve.Add("reason", "máximo 500 caracteres").Add("quantity", "requerido")
	assert.True(t, ve.HasErrors())
	assert.Equal(t, "datos inválidos (quantity: requerido; reason: máximo 500 caracteres)", ve.Error())
}

func TestNotFoundError_Message(t *testing.T) {
	assert.Equal(t, "producto con id 42 no encontrado", domain.NewNotFoundError("producto", 42).Error())
}
