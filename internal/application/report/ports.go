package report

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
)

// StockReportRenderer genera el documento del reporte de stock por categoría.
type StockReportRenderer interface {
	RenderStockByCategory(ctx context.Context, rows []dto.StockByCategoryDTO, generatedAt time.Time) ([]byte, error)
}
