package inventory_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *memory.Store
	cache  *memory.ReportCache
	ledger *inventory.LedgerUseCase
}

func newFixture(t *testing.T, cfg inventory.LedgerConfig) *fixture {
	t.Helper()
	store := memory.NewStore()
	cache := memory.NewReportCache()
	return &fixture{
		store:  store,
		cache:  cache,
		ledger: inventory.NewLedgerUseCase(store.TxRunner(), cache, cfg, zerolog.Nop()),
	}
}

// seedProduct crea una categoría y un producto con la cantidad inicial dada.
func (f *fixture) seedProduct(t *testing.T, code string, quantity int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	cat := &entity.Category{Name: "Cat " + code}
	require.NoError(t, f.store.Categories().Create(ctx, cat))
	p := &entity.Product{
		Name:        "Producto " + code,
		ProductCode: code,
		Price:       decimal.RequireFromString("10.00"),
		Quantity:    quantity,
		CategoryID:  cat.ID,
	}
	require.NoError(t, f.store.Products().Create(ctx, p))
	return p
}

func (f *fixture) quantity(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) history(t *testing.T, id int64) []*entity.InventoryHistory {
	t.Helper()
	entries, _, err := f.store.History().List(context.Background(), repository.HistoryFilter{ProductID: &id})
	require.NoError(t, err)
	return entries
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_IncreaseDecreaseAdjust(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 10)
	ctx := context.Background()

	res, err := f.ledger.Increase(ctx, p.ID, 5, "  reposición  ")
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, "increase", res.Entry.ChangeType)
	assert.Equal(t, 5, res.Entry.QuantityChange)
	assert.Equal(t, 10, res.Entry.QuantityBefore)
	assert.Equal(t, 15, res.Entry.QuantityAfter)
	require.NotNil(t, res.Entry.Reason)
	assert.Equal(t, "reposición", *res.Entry.Reason, "el motivo se guarda sin espacios extremos")
	assert.Equal(t, "SKU-1", res.Entry.ProductCode)
	assert.NotZero(t, res.Entry.ID)
	assert.False(t, res.Entry.CreatedAt.IsZero())

	res, err = f.ledger.Decrease(ctx, p.ID, 3, "")
	require.NoError(t, err)
	assert.Equal(t, -3, res.Entry.QuantityChange)
	assert.Equal(t, 15, res.Entry.QuantityBefore)
	assert.Equal(t, 12, res.Entry.QuantityAfter)
	assert.Nil(t, res.Entry.Reason, "motivo vacío se guarda como NULL")

	res, err = f.ledger.Adjust(ctx, p.ID, 20, "conteo físico")
	require.NoError(t, err)
	assert.Equal(t, "adjustment", res.Entry.ChangeType)
	assert.Equal(t, 8, res.Entry.QuantityChange)
	assert.Equal(t, 12, res.Entry.QuantityBefore)
	assert.Equal(t, 20, res.Entry.QuantityAfter)

	res, err = f.ledger.Adjust(ctx, p.ID, 4, "merma")
	require.NoError(t, err)
	assert.Equal(t, -16, res.Entry.QuantityChange)

	assert.Equal(t, 4, f.quantity(t, p.ID))
	assert.Len(t, f.history(t, p.ID), 4)
}

func TestLedger_DecreaseToExactlyZero(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 7)

	res, err := f.ledger.Decrease(context.Background(), p.ID, 7, "venta")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Entry.QuantityAfter)
	assert.Equal(t, 0, f.quantity(t, p.ID))
}

func TestLedger_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 5)

	_, err := f.ledger.Decrease(context.Background(), p.ID, 6, "venta")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 5, ise.Available)
	assert.Equal(t, 6, ise.Requested)

	assert.Equal(t, 5, f.quantity(t, p.ID))
	assert.Empty(t, f.history(t, p.ID))
	assert.Zero(t, f.cache.Invalidations(), "un rechazo no invalida la caché")
}

func TestLedger_UnknownProduct(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})

	_, err := f.ledger.Increase(context.Background(), 999, 1, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(999), nf.ID)
}

func TestLedger_Validation(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 5)
	ctx := context.Background()

	cases := []struct {
		name  string
		call  func() error
		field string
	}{
		{"increase cero", func() error { _, err := f.ledger.Increase(ctx, p.ID, 0, ""); return err }, "quantity"},
		{"decrease negativo", func() error { _, err := f.ledger.Decrease(ctx, p.ID, -2, ""); return err }, "quantity"},
		{"adjust negativo", func() error { _, err := f.ledger.Adjust(ctx, p.ID, -1, ""); return err }, "new_quantity"},
		{"producto no positivo", func() error { _, err := f.ledger.Increase(ctx, 0, 1, ""); return err }, "product_id"},
		{"motivo largo", func() error { _, err := f.ledger.Increase(ctx, p.ID, 1, strings.Repeat("á", 501)); return err }, "reason"},
		{"tipo desconocido", func() error {
			_, err := f.ledger.Apply(ctx, inventory.Movement{ProductID: p.ID, Type: "transfer", Quantity: 1})
			return err
		}, "change_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, tc.field)
		})
	}

	assert.Equal(t, 5, f.quantity(t, p.ID))
	assert.Empty(t, f.history(t, p.ID))
}

func TestLedger_ReasonAtLimitIsAccepted(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 0)

	res, err := f.ledger.Increase(context.Background(), p.ID, 1, strings.Repeat("ñ", inventory.MaxReasonLength))
	require.NoError(t, err)
	require.NotNil(t, res.Entry.Reason)
	assert.Len(t, []rune(*res.Entry.Reason), inventory.MaxReasonLength)
}

func TestLedger_IncreaseBeyondMaxQuantity(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", entity.MaxQuantity)

	_, err := f.ledger.Increase(context.Background(), p.ID, 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes sin cambio
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_NoopAdjustmentLogged(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 8)

	res, err := f.ledger.Adjust(context.Background(), p.ID, 8, "verificación")
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, 0, res.Entry.QuantityChange)
	assert.Len(t, f.history(t, p.ID), 1)
}

func TestLedger_NoopAdjustmentSuppressed(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: false})
	p := f.seedProduct(t, "SKU-1", 8)

	res, err := f.ledger.Adjust(context.Background(), p.ID, 8, "verificación")
	require.NoError(t, err)
	assert.False(t, res.Recorded)
	assert.Zero(t, res.Entry.ID, "no se asigna id a una entrada no registrada")
	assert.Equal(t, 8, res.Entry.QuantityBefore)
	assert.Equal(t, 8, res.Entry.QuantityAfter)
	assert.Empty(t, f.history(t, p.ID))
	assert.Zero(t, f.cache.Invalidations())
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_HistoryFailureRollsBackQuantity(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 10)

	boom := errors.New("disco lleno")
	f.store.FailNextHistoryInsert(boom)

	_, err := f.ledger.Increase(context.Background(), p.ID, 5, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, f.quantity(t, p.ID), "la cantidad vuelve al valor previo")
	assert.Empty(t, f.history(t, p.ID))

	res, err := f.ledger.Increase(context.Background(), p.ID, 5, "")
	require.NoError(t, err)
	assert.Equal(t, 15, res.Entry.QuantityAfter)
}

func TestLedger_CanceledContext(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.ledger.Increase(ctx, p.ID, 1, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, f.quantity(t, p.ID))
}

func TestLedger_ConcurrentIncreasesSerializePerProduct(t *testing.T) {
	const workers = 50
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 0)
	other := f.seedProduct(t, "SKU-2", 100)

	var wg sync.WaitGroup
	errs := make(chan error, 2*workers)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Increase(context.Background(), p.ID, 1, "")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.ledger.Decrease(context.Background(), other.ID, 1, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, workers, f.quantity(t, p.ID))
	assert.Equal(t, 100-workers, f.quantity(t, other.ID))

	// El historial forma una cadena: cada before es el after de la entrada anterior.
	entries := f.history(t, p.ID)
	require.Len(t, entries, workers)
	for i := len(entries) - 1; i > 0; i-- {
		older, newer := entries[i], entries[i-1]
		assert.Equal(t, older.QuantityAfter, newer.QuantityBefore)
		assert.True(t, newer.Consistent())
	}
	assert.Equal(t, 0, entries[len(entries)-1].QuantityBefore)
	assert.Equal(t, workers, entries[0].QuantityAfter)
}

func TestLedger_ConcurrentDecreasesNeverOversell(t *testing.T) {
	const workers = 20
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 5)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Decrease(context.Background(), p.ID, 1, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, insufficient)
	assert.Equal(t, 0, f.quantity(t, p.ID))
	assert.Len(t, f.history(t, p.ID), 5)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché de reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_InvalidatesReportCacheAfterCommit(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 1)

	_, err := f.ledger.Increase(context.Background(), p.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Invalidations())
}

func TestLedger_CacheFailureDoesNotFailMovement(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
	p := f.seedProduct(t, "SKU-1", 1)
	f.cache.FailInvalidate(errors.New("redis caído"))

	res, err := f.ledger.Increase(context.Background(), p.ID, 1, "")
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, 2, f.quantity(t, p.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_ReferenceScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("disminuir más de lo disponible", func(t *testing.T) {
		f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
		p := f.seedProduct(t, "S1", 10)
		_, err := f.ledger.Decrease(ctx, p.ID, 15, "")
		var ise *domain.InsufficientStockError
		require.True(t, errors.As(err, &ise))
		assert.Equal(t, 10, ise.Available)
		assert.Equal(t, 15, ise.Requested)
		assert.Equal(t, 10, f.quantity(t, p.ID))
		assert.Empty(t, f.history(t, p.ID))
	})

	t.Run("disminuir todo el stock", func(t *testing.T) {
		f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
		p := f.seedProduct(t, "S2", 10)
		res, err := f.ledger.Decrease(ctx, p.ID, 10, "")
		require.NoError(t, err)
		assert.Equal(t, 10, res.Entry.QuantityBefore)
		assert.Equal(t, 0, res.Entry.QuantityAfter)
		assert.Equal(t, -10, res.Entry.QuantityChange)
	})

	t.Run("ajuste sin cambio", func(t *testing.T) {
		f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
		p := f.seedProduct(t, "S3", 5)
		res, err := f.ledger.Adjust(ctx, p.ID, 5, "")
		require.NoError(t, err)
		assert.Equal(t, 0, res.Entry.QuantityChange)
		assert.Equal(t, 5, f.quantity(t, p.ID))
		assert.Len(t, f.history(t, p.ID), 1)
	})

	t.Run("dos incrementos, el más reciente primero", func(t *testing.T) {
		f := newFixture(t, inventory.LedgerConfig{LogNoopAdjustments: true})
		p := f.seedProduct(t, "S4", 0)
		_, err := f.ledger.Increase(ctx, p.ID, 7, "")
		require.NoError(t, err)
		_, err = f.ledger.Increase(ctx, p.ID, 3, "")
		require.NoError(t, err)

		assert.Equal(t, 10, f.quantity(t, p.ID))
		out, err := inventory.NewHistoryUseCase(f.store.History(), f.store.Products()).
			ListHistory(ctx, inventory.HistoryFilter{ProductID: &p.ID})
		require.NoError(t, err)
		require.Len(t, out.Items, 2)
		assert.Equal(t, 3, out.Items[0].QuantityChange)
		assert.Equal(t, 7, out.Items[1].QuantityChange)
	})
}
