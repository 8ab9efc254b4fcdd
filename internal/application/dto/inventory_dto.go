package dto

import "time"

// StockChangeRequest body de increase/decrease.
// Reason se recorta antes de medir su largo; el límite lo aplica el caso de uso.
type StockChangeRequest struct {
	Quantity *int    `json:"quantity" validate:"required,gt=0"`
	Reason   *string `json:"reason"`
}

// StockAdjustRequest body de adjust.
type StockAdjustRequest struct {
	NewQuantity *int    `json:"new_quantity" validate:"required,gte=0"`
	Reason      *string `json:"reason"`
}

// InventoryHistoryResponse entrada del libro de inventario.
type InventoryHistoryResponse struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductCode    string    `json:"product_code"`
	ChangeType     string    `json:"change_type"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         *string   `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryListResponse página del historial.
type HistoryListResponse struct {
	Items      []InventoryHistoryResponse `json:"items"`
	Pagination Pagination                 `json:"pagination"`
}
