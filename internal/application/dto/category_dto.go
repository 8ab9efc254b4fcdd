package dto

import "time"

// CreateCategoryRequest body para crear categoría.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest campos opcionales.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

// CategoryResponse categoría expuesta por la API.
type CategoryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ProductCount *int      `json:"product_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
