package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity límite de la columna products.quantity (INTEGER).
const MaxQuantity = math.MaxInt32

// Product representa un producto del almacén.
// Quantity solo cambia a través del libro de inventario después de la creación.
type Product struct {
	ID           int64
	Name         string
	ProductCode  string // único, normalizado en mayúsculas
	Price        decimal.Decimal
	Quantity     int
	CategoryID   int64
	CategoryName string // sólo lectura (JOIN)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}
