package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockByCategoryResult resultado crudo por categoría. Incluye categorías sin productos.
type StockByCategoryResult struct {
	CategoryID    int64
	CategoryName  string
	TotalProducts int
	TotalStock    int64
	TotalValue    decimal.Decimal // suma de quantity * price
}

// LowStockResult producto en o por debajo del umbral.
type LowStockResult struct {
	ProductID    int64
	Name         string
	ProductCode  string
	Quantity     int
	CategoryName string
}

// DashboardStatsResult totales globales del almacén.
type DashboardStatsResult struct {
	TotalProducts   int
	TotalCategories int
	TotalStock      int64
	TotalValue      decimal.Decimal
	LowStockCount   int
}

// ReportRepository consultas de lectura para reportes.
type ReportRepository interface {
	// StockByCategory ordenado por nombre de categoría.
	StockByCategory(ctx context.Context) ([]StockByCategoryResult, error)
	// LowStock ordenado por cantidad ascendente y luego por nombre.
	LowStock(ctx context.Context, threshold int) ([]LowStockResult, error)
	DashboardStats(ctx context.Context, lowStockThreshold int) (DashboardStatsResult, error)
}
