package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryFilter filtros de ListHistory. Page y Limit en cero toman los valores por defecto.
type HistoryFilter struct {
	ProductID  *int64
	ChangeType *entity.ChangeType
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

// HistoryUseCase consultas de sólo lectura sobre el libro de inventario.
type HistoryUseCase struct {
	historyRepo repository.InventoryHistoryRepository
	productRepo repository.ProductRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(historyRepo repository.InventoryHistoryRepository, productRepo repository.ProductRepository) *HistoryUseCase {
	return &HistoryUseCase{historyRepo: historyRepo, productRepo: productRepo}
}

// ListHistory devuelve la página del historial, del más reciente al más antiguo.
// Un product_id inexistente es NotFound, tanto por producto como en el listado general.
func (uc *HistoryUseCase) ListHistory(ctx context.Context, f HistoryFilter) (*dto.HistoryListResponse, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultHistoryLimit
	}

	ve := domain.NewValidationError("parámetros inválidos")
	if f.Page < 1 {
		ve.Add("page", "debe ser mayor o igual a 1")
	}
	if f.Limit < 1 || f.Limit > MaxHistoryLimit {
		ve.Add("limit", "debe estar entre 1 y 100")
	}
	if f.ChangeType != nil && !f.ChangeType.Valid() {
		ve.Add("change_type", "debe ser increase, decrease o adjustment")
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		ve.Add("start_date", "no puede ser posterior a end_date")
	}
	if f.ProductID != nil && *f.ProductID <= 0 {
		ve.Add("product_id", "debe ser un entero positivo")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if f.ProductID != nil {
		product, err := uc.productRepo.GetByID(ctx, *f.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewNotFoundError("producto", *f.ProductID)
		}
	}

	page := dto.NewPagination(f.Page, f.Limit, 0)
	entries, total, err := uc.historyRepo.List(ctx, repository.HistoryFilter{
		ProductID:  f.ProductID,
		ChangeType: f.ChangeType,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Limit:      f.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.InventoryHistoryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toHistoryResponse(e))
	}
	return &dto.HistoryListResponse{
		Items:      items,
		Pagination: dto.NewPagination(f.Page, f.Limit, total),
	}, nil
}
