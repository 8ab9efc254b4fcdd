package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.s.categories {
		if c.ID != exceptID && entity.CategoryNameKey(c.Name) == entity.CategoryNameKey(name) {
			return true
		}
	}
	return false
}

// Create inserta la categoría; ErrDuplicate si el nombre ya existe (misma regla que LOWER(name)).
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(c.Name, 0) {
		return domain.ErrDuplicate
	}
	r.s.seqCategory++
	now := r.s.now()
	c.ID, c.CreatedAt, c.UpdatedAt = r.s.seqCategory, now, now
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

// GetByID devuelve una copia o (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if entity.CategoryNameKey(c.Name) == entity.CategoryNameKey(name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// List categorías con su conteo de productos, ordenadas por nombre.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.CategoryWithCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.CategoryWithCount, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, &entity.CategoryWithCount{Category: *c, ProductCount: r.countLocked(c.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update modifica nombre y descripción.
func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.categories[c.ID]
	if !ok {
		return domain.NewNotFoundError("categoría", c.ID)
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	cur.Name, cur.Description, cur.UpdatedAt = c.Name, c.Description, r.s.now()
	c.UpdatedAt = cur.UpdatedAt
	return nil
}

// Delete falla con ErrConflict si quedan productos (equivalente a ON DELETE RESTRICT).
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.NewNotFoundError("categoría", id)
	}
	if r.countLocked(id) > 0 {
		return &domain.ConflictError{Message: "la categoría tiene productos asociados"}
	}
	delete(r.s.categories, id)
	return nil
}

// CountProducts número de productos de la categoría.
func (r *CategoryRepo) CountProducts(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countLocked(id), nil
}

func (r *CategoryRepo) countLocked(id int64) int {
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n
}
