package repository

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// Columnas permitidas para ordenar listados de productos.
const (
	ProductSortName      = "name"
	ProductSortCode      = "product_code"
	ProductSortPrice     = "price"
	ProductSortQuantity  = "quantity"
	ProductSortCreatedAt = "created_at"
)

// ProductFilter criterios del listado de productos.
type ProductFilter struct {
	CategoryID *int64
	Search     string // coincide con nombre o código
	SortBy     string // una de las constantes ProductSort*
	Desc       bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByCode/GetForUpdate devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update modifica los atributos descriptivos; nunca la cantidad.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id int64) error
}
