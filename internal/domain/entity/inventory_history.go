package entity

import "time"

// ChangeType tipo de movimiento registrado en el historial.
type ChangeType string

// Tipos de cambio de inventario.
const (
	ChangeTypeIncrease   ChangeType = "increase"
	ChangeTypeDecrease   ChangeType = "decrease"
	ChangeTypeAdjustment ChangeType = "adjustment"
)

// Valid indica si el tipo es uno de los tres conocidos.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeIncrease, ChangeTypeDecrease, ChangeTypeAdjustment:
		return true
	}
	return false
}

// ParseChangeType convierte texto a ChangeType; false si no es válido.
func ParseChangeType(s string) (ChangeType, bool) {
	t := ChangeType(s)
	return t, t.Valid()
}

// InventoryHistory entrada inmutable del libro de inventario.
// Se cumple siempre QuantityAfter == QuantityBefore + QuantityChange.
type InventoryHistory struct {
	ID             int64
	ProductID      int64
	ChangeType     ChangeType
	QuantityChange int // positivo en increase, negativo en decrease, con signo en adjustment
	QuantityBefore int
	QuantityAfter  int
	Reason         *string
	CreatedAt      time.Time

	// Sólo lectura (JOIN con products)
	ProductName string
	ProductCode string
}

// Consistent verifica la aritmética de la entrada.
func (h *InventoryHistory) Consistent() bool {
	return h.QuantityAfter == h.QuantityBefore+h.QuantityChange && h.QuantityAfter >= 0 && h.QuantityBefore >= 0
}
