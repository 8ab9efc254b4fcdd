package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para crear producto. Quantity es la cantidad inicial (sin historial).
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	ProductCode string           `json:"product_code" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	CategoryID  int64            `json:"category_id" validate:"required,gt=0"`
}

// UpdateProductRequest campos opcionales; la cantidad no es editable aquí.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	ProductCode *string          `json:"product_code" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0"`
}

// ProductQuery parámetros de listado.
type ProductQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	Search     string
	SortBy     string
	SortOrder  string
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	ProductCode  string          `json:"product_code"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
