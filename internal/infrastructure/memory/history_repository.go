package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.InventoryHistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo libro de inventario en memoria (sólo inserción).
type HistoryRepo struct {
	s  *Store
	tx *tx
}

// Create agrega la entrada y asigna id y created_at; si hay transacción se deshace en rollback.
func (r *HistoryRepo) Create(_ context.Context, h *entity.InventoryHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failHistory; err != nil {
		r.s.failHistory = nil
		return fmt.Errorf("insert inventory history: %w", err)
	}
	if _, ok := r.s.products[h.ProductID]; !ok {
		return fmt.Errorf("insert inventory history: %w", domain.ErrConflict)
	}
	if !h.ChangeType.Valid() || !h.Consistent() {
		return fmt.Errorf("insert inventory history: %w", domain.ErrInvalidInput)
	}
	r.s.seqHistory++
	h.ID = r.s.seqHistory
	h.CreatedAt = r.s.now()
	cp := *h
	cp.ProductName, cp.ProductCode = "", ""
	r.s.history = append(r.s.history, &cp)
	if r.tx != nil {
		r.tx.insertedHist[h.ID] = true
	}
	return nil
}

// List filtra y ordena por created_at DESC, id DESC; devuelve la página y el total.
func (r *HistoryRepo) List(_ context.Context, f repository.HistoryFilter) ([]*entity.InventoryHistory, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryHistory
	for _, h := range r.s.history {
		if f.ProductID != nil && h.ProductID != *f.ProductID {
			continue
		}
		if f.ChangeType != nil && h.ChangeType != *f.ChangeType {
			continue
		}
		if f.StartDate != nil && h.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && h.CreatedAt.After(*f.EndDate) {
			continue
		}
		cp := *h
		if p, ok := r.s.products[h.ProductID]; ok {
			cp.ProductName, cp.ProductCode = p.Name, p.ProductCode
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, f.Offset, f.Limit), len(out), nil
}
