package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

// Límites de paginación de productos.
const (
	DefaultProductLimit = 20
	MaxProductLimit     = 100
)

// ProductUseCase casos de uso CRUD para productos. La cantidad sólo cambia vía el libro de inventario.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        ports.ReportCacheInvalidator
	log          zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache ports.ReportCacheInvalidator, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, cache: cache, log: log}
}

// NormalizeProductCode recorta y pasa a mayúsculas el código.
func NormalizeProductCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// Create crea un producto con su cantidad inicial; no genera entrada de historial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		ProductCode: NormalizeProductCode(in.ProductCode),
		CategoryID:  in.CategoryID,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}

	ve := validateProduct(p)
	if in.Price == nil {
		ve.Add("price", "es requerido")
	}
	if p.Quantity < 0 {
		ve.Add("quantity", "no puede ser negativa")
	} else if p.Quantity > entity.MaxQuantity {
		ve.Add("quantity", "excede el máximo permitido")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if err := uc.ensureCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, p.ProductCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateProduct(p.ProductCode)
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateProduct(p.ProductCode)
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return uc.GetByID(ctx, p.ID)
}

// GetByID obtiene un producto con el nombre de su categoría.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	out := toProductResponse(p)
	return &out, nil
}

var productSortFields = map[string]string{
	"name":         repository.ProductSortName,
	"product_code": repository.ProductSortCode,
	"price":        repository.ProductSortPrice,
	"quantity":     repository.ProductSortQuantity,
	"created_at":   repository.ProductSortCreatedAt,
}

// List lista productos con filtros, orden y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultProductLimit
	}
	ve := domain.NewValidationError("parámetros inválidos")
	if q.Page < 1 {
		ve.Add("page", "debe ser mayor o igual a 1")
	}
	if q.Limit < 1 || q.Limit > MaxProductLimit {
		ve.Add("limit", "debe estar entre 1 y 100")
	}
	sortBy := repository.ProductSortName
	if q.SortBy != "" {
		s, ok := productSortFields[q.SortBy]
		if !ok {
			ve.Add("sort_by", "debe ser name, product_code, price, quantity o created_at")
		}
		sortBy = s
	}
	desc := false
	switch strings.ToLower(q.SortOrder) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		ve.Add("sort_order", "debe ser asc o desc")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	page := dto.NewPagination(q.Page, q.Limit, 0)
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		SortBy:     sortBy,
		Desc:       desc,
		Limit:      q.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Pagination: dto.NewPagination(q.Page, q.Limit, total)}, nil
}

// Update modifica atributos descriptivos. Nunca toca la cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.ProductCode != nil {
		p.ProductCode = NormalizeProductCode(*in.ProductCode)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	categoryChanged := in.CategoryID != nil && *in.CategoryID != p.CategoryID
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if ve := validateProduct(p); ve.HasErrors() {
		return nil, ve
	}
	if categoryChanged {
		if err := uc.ensureCategory(ctx, p.CategoryID); err != nil {
			return nil, err
		}
	}
	if in.ProductCode != nil {
		existing, err := uc.repo.GetByCode(ctx, p.ProductCode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, duplicateProduct(p.ProductCode)
		}
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateProduct(p.ProductCode)
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return uc.GetByID(ctx, id)
}

// Delete elimina el producto; su historial se elimina en cascada.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, id int64) error {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewValidationError("datos inválidos").Add("category_id", "la categoría no existe")
	}
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

// validateProduct reglas comunes de creación y actualización.
func validateProduct(p *entity.Product) *domain.ValidationError {
	ve := domain.NewValidationError("datos inválidos")
	if p.Name == "" {
		ve.Add("name", "es requerido")
	} else if utf8.RuneCountInString(p.Name) > 200 {
		ve.Add("name", "máximo 200 caracteres")
	}
	if p.ProductCode == "" {
		ve.Add("product_code", "es requerido")
	} else if utf8.RuneCountInString(p.ProductCode) > 50 {
		ve.Add("product_code", "máximo 50 caracteres")
	}
	if p.Price.IsNegative() {
		ve.Add("price", "no puede ser negativo")
	} else if !p.Price.Equal(p.Price.Round(2)) {
		ve.Add("price", "máximo 2 decimales")
	} else if p.Price.GreaterThanOrEqual(maxPrice) {
		ve.Add("price", "excede el máximo permitido")
	}
	if p.CategoryID <= 0 {
		ve.Add("category_id", "es requerido")
	}
	return ve
}

// maxPrice límite de NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

func duplicateProduct(code string) error {
	return &domain.ConflictError{Message: "ya existe un producto con el código " + code}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		ProductCode:  p.ProductCode,
		Price:        p.Price,
		Quantity:     p.Quantity,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
