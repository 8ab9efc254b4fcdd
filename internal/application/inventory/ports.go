package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de inventario: cantidad e historial se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
	) error) error
}
