package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// HistoryFilter criterios de consulta del historial. Campos nil = sin filtro.
type HistoryFilter struct {
	ProductID  *int64
	ChangeType *entity.ChangeType
	StartDate  *time.Time // inclusivo
	EndDate    *time.Time // inclusivo
	Limit      int
	Offset     int
}

// InventoryHistoryRepository puerto del libro de inventario (solo inserción y lectura).
type InventoryHistoryRepository interface {
	// Create inserta la entrada y completa ID y CreatedAt.
	Create(ctx context.Context, h *entity.InventoryHistory) error
	// List devuelve la página ordenada del más reciente al más antiguo y el total sin paginar.
	List(ctx context.Context, filter HistoryFilter) ([]*entity.InventoryHistory, int, error)
}
