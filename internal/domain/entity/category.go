package entity

import (
	"strings"
	"time"
)

// Category agrupa productos. El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryWithCount categoría con el número de productos asociados (listados).
type CategoryWithCount struct {
	Category
	ProductCount int
}

// CategoryNameKey clave de unicidad del nombre. Debe coincidir con el índice LOWER(name) de la base.
func CategoryNameKey(name string) string {
	return strings.ToLower(name)
}
