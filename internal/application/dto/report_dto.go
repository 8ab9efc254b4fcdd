package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockByCategoryDTO fila del reporte de stock por categoría.
type StockByCategoryDTO struct {
	CategoryID    int64           `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	TotalProducts int             `json:"total_products"`
	TotalStock    int64           `json:"total_stock"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// LowStockItemDTO producto con stock bajo.
type LowStockItemDTO struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	ProductCode  string `json:"product_code"`
	Quantity     int    `json:"quantity"`
	CategoryName string `json:"category_name"`
}

// LowStockReportDTO respuesta del reporte de stock bajo.
type LowStockReportDTO struct {
	Threshold int               `json:"threshold"`
	Total     int               `json:"total"`
	Items     []LowStockItemDTO `json:"items"`
}

// DashboardStatsDTO totales del tablero.
type DashboardStatsDTO struct {
	TotalProducts     int             `json:"total_products"`
	TotalCategories   int             `json:"total_categories"`
	TotalStock        int64           `json:"total_stock"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LowStockCount     int             `json:"low_stock_count"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	GeneratedAt       time.Time       `json:"generated_at"`
}
