package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*InventoryHistoryRepo)(nil)

// InventoryHistoryRepo libro de inventario sobre PostgreSQL. No expone UPDATE ni DELETE.
type InventoryHistoryRepo struct {
	q Querier
}

// NewInventoryHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryHistoryRepository(q Querier) *InventoryHistoryRepo {
	return &InventoryHistoryRepo{q: q}
}

// Create inserta la entrada; created_at lo asigna la base de datos.
func (r *InventoryHistoryRepo) Create(ctx context.Context, h *entity.InventoryHistory) error {
	query := `
		INSERT INTO inventory_history (product_id, change_type, quantity_change, quantity_before, quantity_after, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		h.ProductID, string(h.ChangeType), h.QuantityChange, h.QuantityBefore, h.QuantityAfter, h.Reason,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert inventory history: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert inventory history: %w", err)
	}
	return nil
}

// List aplica los filtros y devuelve la página (más reciente primero) y el total.
func (r *InventoryHistoryRepo) List(ctx context.Context, f repository.HistoryFilter) ([]*entity.InventoryHistory, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		conds = append(conds, fmt.Sprintf("ih.product_id = $%d", len(args)))
	}
	if f.ChangeType != nil {
		args = append(args, string(*f.ChangeType))
		conds = append(conds, fmt.Sprintf("ih.change_type = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conds = append(conds, fmt.Sprintf("ih.created_at >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conds = append(conds, fmt.Sprintf("ih.created_at <= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_history ih`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory history: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT ih.id, ih.product_id, ih.change_type, ih.quantity_change, ih.quantity_before, ih.quantity_after,
		       ih.reason, ih.created_at, p.name, p.product_code
		FROM inventory_history ih
		JOIN products p ON p.id = ih.product_id%s
		ORDER BY ih.created_at DESC, ih.id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory history: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryHistory
	for rows.Next() {
		var (
			h          entity.InventoryHistory
			changeType string
		)
		if err := rows.Scan(&h.ID, &h.ProductID, &changeType, &h.QuantityChange, &h.QuantityBefore, &h.QuantityAfter,
			&h.Reason, &h.CreatedAt, &h.ProductName, &h.ProductCode); err != nil {
			return nil, 0, fmt.Errorf("scan inventory history: %w", err)
		}
		h.ChangeType = entity.ChangeType(changeType)
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list inventory history: %w", err)
	}
	return list, total, nil
}
