package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	cache ports.ReportCacheInvalidator
	log   zerolog.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, cache ports.ReportCacheInvalidator, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, cache: cache, log: log}
}

// List devuelve todas las categorías con su número de productos.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		r := toCategoryResponse(&c.Category)
		count := c.ProductCount
		r.ProductCount = &count
		out = append(out, r)
	}
	return out, nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("categoría", id)
	}
	count, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	out.ProductCount = &count
	return &out, nil
}

// Create crea una categoría. El nombre es único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	desc := normalizeDescription(in.Description)
	if ve := validateCategory(name, desc); ve != nil {
		return nil, ve
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateCategory(name)
	}

	c := &entity.Category{Name: name, Description: desc}
	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateCategory(name)
		}
		return nil, err
	}
	uc.invalidate(ctx)
	out := toCategoryResponse(c)
	zero := 0
	out.ProductCount = &zero
	return &out, nil
}

// Update modifica nombre y/o descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("categoría", id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !sameName(name, c.Name) {
			existing, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, duplicateCategory(name)
			}
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = normalizeDescription(in.Description)
	}
	if ve := validateCategory(c.Name, c.Description); ve != nil {
		return nil, ve
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateCategory(c.Name)
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return uc.GetByID(ctx, id)
}

// Delete elimina la categoría; falla con conflicto si tiene productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewNotFoundError("categoría", id)
	}
	count, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.ConflictError{Message: "no se puede eliminar una categoría con productos"}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *CategoryUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

func validateCategory(name string, desc *string) *domain.ValidationError {
	ve := domain.NewValidationError("datos inválidos")
	if name == "" {
		ve.Add("name", "es requerido")
	} else if utf8.RuneCountInString(name) > 100 {
		ve.Add("name", "máximo 100 caracteres")
	}
	if desc != nil && utf8.RuneCountInString(*desc) > 500 {
		ve.Add("description", "máximo 500 caracteres")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// sameName misma regla que el índice único de la base.
func sameName(a, b string) bool {
	return entity.CategoryNameKey(a) == entity.CategoryNameKey(b)
}

func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	d := strings.TrimSpace(*desc)
	if d == "" {
		return nil
	}
	return &d
}

func duplicateCategory(name string) error {
	return &domain.ConflictError{Message: "ya existe una categoría llamada " + name}
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
