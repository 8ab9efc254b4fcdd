package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// Claves de caché. Todas comparten el prefijo que invalida el libro de inventario.
const (
	KeyPrefix          = "reports:"
	keyStockByCategory = KeyPrefix + "stock-by-category"
	keyDashboard       = KeyPrefix + "dashboard"
)

// Config parámetros de reportes.
type Config struct {
	LowStockThreshold int
	CacheTTL          time.Duration
}

// ReportUseCase agregados de stock. Lecturas sin bloqueo; pueden estar desfasadas hasta CacheTTL.
type ReportUseCase struct {
	repo     repository.ReportRepository
	cache    ports.ReportCache
	renderer StockReportRenderer
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository, cache ports.ReportCache, renderer StockReportRenderer, cfg Config, log zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, cache: cache, renderer: renderer, cfg: cfg, log: log, now: time.Now}
}

// StockByCategory totales por categoría (incluye categorías vacías), ordenado por nombre.
func (uc *ReportUseCase) StockByCategory(ctx context.Context) ([]dto.StockByCategoryDTO, error) {
	var cached []dto.StockByCategoryDTO
	if uc.fromCache(ctx, keyStockByCategory, &cached) {
		return cached, nil
	}

	rows, err := uc.repo.StockByCategory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockByCategoryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockByCategoryDTO{
			CategoryID:    r.CategoryID,
			CategoryName:  r.CategoryName,
			TotalProducts: r.TotalProducts,
			TotalStock:    r.TotalStock,
			TotalValue:    r.TotalValue.Round(2),
		})
	}
	uc.toCache(ctx, keyStockByCategory, out)
	return out, nil
}

// LowStock productos con cantidad <= threshold. nil usa el umbral configurado.
func (uc *ReportUseCase) LowStock(ctx context.Context, threshold *int) (*dto.LowStockReportDTO, error) {
	t := uc.cfg.LowStockThreshold
	if threshold != nil {
		t = *threshold
	}
	if t < 0 {
		return nil, domain.NewValidationError("parámetros inválidos").Add("threshold", "no puede ser negativo")
	}

	rows, err := uc.repo.LowStock(ctx, t)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemDTO{
			ProductID:    r.ProductID,
			Name:         r.Name,
			ProductCode:  r.ProductCode,
			Quantity:     r.Quantity,
			CategoryName: r.CategoryName,
		})
	}
	return &dto.LowStockReportDTO{Threshold: t, Total: len(items), Items: items}, nil
}

// DashboardStats totales globales del almacén.
func (uc *ReportUseCase) DashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	var cached dto.DashboardStatsDTO
	if uc.fromCache(ctx, keyDashboard, &cached) {
		return &cached, nil
	}

	st, err := uc.repo.DashboardStats(ctx, uc.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardStatsDTO{
		TotalProducts:     st.TotalProducts,
		TotalCategories:   st.TotalCategories,
		TotalStock:        st.TotalStock,
		TotalValue:        st.TotalValue.Round(2),
		LowStockCount:     st.LowStockCount,
		LowStockThreshold: uc.cfg.LowStockThreshold,
		GeneratedAt:       uc.now().UTC(),
	}
	uc.toCache(ctx, keyDashboard, out)
	return out, nil
}

// StockByCategoryPDF genera el PDF del reporte de stock por categoría y su nombre de archivo.
func (uc *ReportUseCase) StockByCategoryPDF(ctx context.Context) ([]byte, string, error) {
	rows, err := uc.StockByCategory(ctx)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	pdf, err := uc.renderer.RenderStockByCategory(ctx, rows, now)
	if err != nil {
		return nil, "", fmt.Errorf("render stock by category: %w", err)
	}
	return pdf, fmt.Sprintf("stock-por-categoria-%s.pdf", now.Format("20060102")), nil
}

// fromCache errores de caché se registran y se consulta la base de datos.
func (uc *ReportUseCase) fromCache(ctx context.Context, key string, dest any) bool {
	ok, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	return ok
}

func (uc *ReportUseCase) toCache(ctx context.Context, key string, value any) {
	if uc.cfg.CacheTTL <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, key, value, uc.cfg.CacheTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}
