package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Con tx != nil participa de la transacción.
type ProductRepo struct {
	s  *Store
	tx *tx
}

func (r *ProductRepo) snapshot(p *entity.Product) *entity.Product {
	cp := *p
	if c, ok := r.s.categories[p.CategoryID]; ok {
		cp.CategoryName = c.Name
	}
	return &cp
}

func (r *ProductRepo) codeTaken(code string, exceptID int64) bool {
	for _, p := range r.s.products {
		if p.ID != exceptID && p.ProductCode == code {
			return true
		}
	}
	return false
}

// Create inserta el producto; valida código único, categoría existente y cantidad no negativa.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(p.ProductCode, 0) {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return fmt.Errorf("insert product: %w", domain.ErrConflict)
	}
	if p.Quantity < 0 || p.Price.IsNegative() {
		return fmt.Errorf("insert product: %w", domain.ErrInvalidInput)
	}
	r.s.seqProduct++
	now := r.s.now()
	p.ID, p.CreatedAt, p.UpdatedAt = r.s.seqProduct, now, now
	cp := *p
	cp.CategoryName = ""
	r.s.products[p.ID] = &cp
	return nil
}

// GetByID devuelve una copia con el nombre de categoría, o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.snapshot(p), nil
}

// GetByCode busca por código exacto (ya normalizado).
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ProductCode == code {
			return r.snapshot(p), nil
		}
	}
	return nil, nil
}

// GetForUpdate dentro de una transacción toma el bloqueo de la fila hasta el fin de la misma.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if r.tx != nil {
		r.tx.lock(id)
	}
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	p.CategoryName = ""
	return p, nil
}

// Update modifica los datos del producto sin tocar la cantidad.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.NewNotFoundError("producto", p.ID)
	}
	if r.codeTaken(p.ProductCode, p.ID) {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return fmt.Errorf("update product: %w", domain.ErrConflict)
	}
	cur.Name, cur.ProductCode, cur.Price, cur.CategoryID = p.Name, p.ProductCode, p.Price, p.CategoryID
	cur.UpdatedAt = r.s.now()
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

// UpdateQuantity fija la cantidad; negativa es ErrInvalidInput (CHECK quantity >= 0).
func (r *ProductRepo) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[id]
	if !ok {
		return domain.NewNotFoundError("producto", id)
	}
	if quantity < 0 || quantity > entity.MaxQuantity {
		return fmt.Errorf("update product quantity: %w", domain.ErrInvalidInput)
	}
	if r.tx != nil {
		if _, seen := r.tx.oldQuantity[id]; !seen {
			r.tx.oldQuantity[id] = cur.Quantity
		}
	}
	cur.Quantity = quantity
	cur.UpdatedAt = r.s.now()
	return nil
}

// List filtra, ordena y pagina igual que el repositorio PostgreSQL.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var all []*entity.Product
	for _, p := range r.s.products {
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ProductCode), search) {
			continue
		}
		all = append(all, r.snapshot(p))
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		var c int
		switch f.SortBy {
		case repository.ProductSortCode:
			c = strings.Compare(a.ProductCode, b.ProductCode)
		case repository.ProductSortPrice:
			c = a.Price.Cmp(b.Price)
		case repository.ProductSortQuantity:
			c = a.Quantity - b.Quantity
		case repository.ProductSortCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		if c == 0 {
			return a.ID < b.ID
		}
		if f.Desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(all, f.Offset, f.Limit), len(all), nil
}

// Delete elimina el producto y su historial (cascada).
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.NewNotFoundError("producto", id)
	}
	delete(r.s.products, id)
	kept := r.s.history[:0]
	for _, h := range r.s.history {
		if h.ProductID != id {
			kept = append(kept, h)
		}
	}
	r.s.history = kept
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
