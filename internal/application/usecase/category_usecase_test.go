package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

type catalog struct {
	store      *memory.Store
	cache      *memory.ReportCache
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
}

func newCatalog() *catalog {
	store := memory.NewStore()
	cache := memory.NewReportCache()
	return &catalog{
		store:      store,
		cache:      cache,
		categories: usecase.NewCategoryUseCase(store.Categories(), cache, zerolog.Nop()),
		products:   usecase.NewProductUseCase(store.Products(), store.Categories(), cache, zerolog.Nop()),
	}
}

func (c *catalog) mustCategory(t *testing.T, name string) int64 {
	t.Helper()
	out, err := c.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return out.ID
}

func TestCategory_CreateNormalizesAndCounts(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()

	out, err := c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "  Herramientas ", Description: ptr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Herramientas", out.Name)
	assert.Nil(t, out.Description, "descripción en blanco se guarda como NULL")
	require.NotNil(t, out.ProductCount)
	assert.Equal(t, 0, *out.ProductCount)
	assert.Equal(t, 1, c.cache.Invalidations())

	_, err = c.products.Create(ctx, dto.CreateProductRequest{
		Name: "Martillo", ProductCode: "mar-1", Price: ptr(decimal.RequireFromString("12.50")), CategoryID: out.ID,
	})
	require.NoError(t, err)

	got, err := c.categories.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *got.ProductCount)

	list, err := c.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, *list[0].ProductCount)
}

func TestCategory_DuplicateNameIgnoresCase(t *testing.T) {
	c := newCatalog()
	c.mustCategory(t, "Herramientas")

	_, err := c.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "HERRAMIENTAS"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Misma regla que LOWER(name): minúsculas simples, sin case folding completo.
func TestCategory_NameRuleMatchesLowerIndex(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	c.mustCategory(t, "ñandú")

	_, err := c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "ÑANDÚ"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	street := c.mustCategory(t, "Straße")
	_, err = c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "STRASSE"})
	require.NoError(t, err, "LOWER no convierte ß en ss")

	out, err := c.categories.Update(ctx, street, dto.UpdateCategoryRequest{Name: ptr("STRAßE")})
	require.NoError(t, err)
	assert.Equal(t, "STRAßE", out.Name)

	assert.Equal(t, entity.CategoryNameKey("ÑANDÚ"), entity.CategoryNameKey("ñandú"))
	assert.NotEqual(t, entity.CategoryNameKey("Straße"), entity.CategoryNameKey("STRASSE"))
}

func TestCategory_Validation(t *testing.T) {
	c := newCatalog()

	_, err := c.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: "  "})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")

	_, err = c.categories.Create(context.Background(), dto.CreateCategoryRequest{Name: strings.Repeat("x", 101)})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
}

func TestCategory_UpdateRenameAndCaseOnlyChange(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	id := c.mustCategory(t, "herramientas")
	c.mustCategory(t, "Accesorios")

	out, err := c.categories.Update(ctx, id, dto.UpdateCategoryRequest{Name: ptr("Herramientas")})
	require.NoError(t, err)
	assert.Equal(t, "Herramientas", out.Name)

	_, err = c.categories.Update(ctx, id, dto.UpdateCategoryRequest{Name: ptr("accesorios")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err = c.categories.Update(ctx, id, dto.UpdateCategoryRequest{Description: ptr("manuales")})
	require.NoError(t, err)
	require.NotNil(t, out.Description)
	assert.Equal(t, "manuales", *out.Description)

	_, err = c.categories.Update(ctx, 99, dto.UpdateCategoryRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategory_DeleteWithProductsIsConflict(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	id := c.mustCategory(t, "Herramientas")
	p, err := c.products.Create(ctx, dto.CreateProductRequest{
		Name: "Martillo", ProductCode: "MAR-1", Price: ptr(decimal.Zero), CategoryID: id,
	})
	require.NoError(t, err)

	err = c.categories.Delete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, c.products.Delete(ctx, p.ID))
	require.NoError(t, c.categories.Delete(ctx, id))

	_, err = c.categories.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, c.categories.Delete(ctx, id), domain.ErrNotFound)
}
