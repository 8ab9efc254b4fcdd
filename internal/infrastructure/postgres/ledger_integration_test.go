//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/postgres"
)

// startPostgres levanta un contenedor, aplica las migraciones y devuelve el pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("warehouse_test"),
		tcPostgres.WithUsername("warehouse"),
		tcPostgres.WithPassword("warehouse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPoolFromDSN(ctx, dsn, 20)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	// Segunda corrida: no debe reaplicar nada.
	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool, code string, price string, quantity int) (*entity.Category, *entity.Product) {
	t.Helper()
	ctx := context.Background()
	cat := &entity.Category{Name: "Cat " + code}
	require.NoError(t, postgres.NewCategoryRepository(pool).Create(ctx, cat))
	p := &entity.Product{
		Name:        "Producto " + code,
		ProductCode: code,
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		CategoryID:  cat.ID,
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, p))
	return cat, p
}

func TestPostgres_Ledger(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	history := postgres.NewInventoryHistoryRepository(pool)
	ledger := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), cache.NoopReportCache{},
		inventory.LedgerConfig{LogNoopAdjustments: true}, zerolog.Nop())

	t.Run("stock insuficiente no escribe", func(t *testing.T) {
		_, p := seed(t, pool, "S1", "1.00", 10)
		_, err := ledger.Decrease(ctx, p.ID, 15, "")
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)
		_, total, err := history.List(ctx, repository.HistoryFilter{ProductID: &p.ID, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("historial del más reciente al más antiguo", func(t *testing.T) {
		_, p := seed(t, pool, "S4", "1.00", 0)
		_, err := ledger.Increase(ctx, p.ID, 7, "primera")
		require.NoError(t, err)
		_, err = ledger.Increase(ctx, p.ID, 3, "")
		require.NoError(t, err)

		entries, total, err := history.List(ctx, repository.HistoryFilter{ProductID: &p.ID, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, entries, 2)
		assert.Equal(t, 3, entries[0].QuantityChange)
		assert.Nil(t, entries[0].Reason)
		assert.Equal(t, 7, entries[1].QuantityChange)
		require.NotNil(t, entries[1].Reason)
		assert.Equal(t, "primera", *entries[1].Reason)
		assert.Equal(t, "S4", entries[0].ProductCode)
	})

	// El ledger usa clock_timestamp(), así que dos movimientos reales casi nunca empatan.
	// Aquí se fuerza el empate con now(), que es fijo dentro de la transacción.
	t.Run("mismo created_at ordena por id", func(t *testing.T) {
		_, p := seed(t, pool, "TIE", "1.00", 0)

		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		var ids []int64
		for before := 0; before < 3; before++ {
			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO inventory_history (product_id, change_type, quantity_change, quantity_before, quantity_after, created_at)
				VALUES ($1, 'increase', 1, $2, $3, now())
				RETURNING id`, p.ID, before, before+1).Scan(&id)
			require.NoError(t, err)
			ids = append(ids, id)
		}
		_, err = tx.Exec(ctx, `UPDATE products SET quantity = 3 WHERE id = $1`, p.ID)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		filter := repository.HistoryFilter{ProductID: &p.ID, Limit: 10}
		first, total, err := history.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, first, 3)
		assert.True(t, first[0].CreatedAt.Equal(first[2].CreatedAt))
		assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{first[0].ID, first[1].ID, first[2].ID})

		second, _, err := history.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("incrementos concurrentes", func(t *testing.T) {
		const workers = 40
		_, p := seed(t, pool, "CONC", "1.00", 0)

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := ledger.Increase(ctx, p.ID, 1, "")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, workers, got.Quantity)

		entries, total, err := history.List(ctx, repository.HistoryFilter{ProductID: &p.ID, Limit: 100})
		require.NoError(t, err)
		require.Equal(t, workers, total)
		for i := len(entries) - 1; i > 0; i-- {
			assert.Equal(t, entries[i].QuantityAfter, entries[i-1].QuantityBefore)
		}
	})

	t.Run("borrar producto elimina su historial", func(t *testing.T) {
		_, p := seed(t, pool, "DEL", "1.00", 1)
		_, err := ledger.Increase(ctx, p.ID, 1, "")
		require.NoError(t, err)

		require.NoError(t, products.Delete(ctx, p.ID))
		_, total, err := history.List(ctx, repository.HistoryFilter{ProductID: &p.ID, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestPostgres_RollbackOnHistoryFailure(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	_, p := seed(t, pool, "RB", "1.00", 10)
	boom := errors.New("falla simulada")

	err := postgres.NewTxRunner(pool).Run(ctx, func(productRepo repository.ProductRepository, _ repository.InventoryHistoryRepository) error {
		locked, err := productRepo.GetForUpdate(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, productRepo.UpdateQuantity(ctx, locked.ID, 99))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
}

func TestPostgres_ConstraintsMapToDomainErrors(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	cat, p := seed(t, pool, "DUP", "1.00", 0)
	products := postgres.NewProductRepository(pool)
	categories := postgres.NewCategoryRepository(pool)

	err := products.Create(ctx, &entity.Product{Name: "x", ProductCode: "DUP", Price: decimal.Zero, CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = categories.Create(ctx, &entity.Category{Name: "cat dup"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el nombre de categoría es único sin distinguir mayúsculas")

	err = categories.Delete(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "la categoría tiene productos")

	err = products.UpdateQuantity(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostgres_ProductSearchIsLiteral(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	cat, _ := seed(t, pool, "PLAIN-1", "1.00", 0)
	products := postgres.NewProductRepository(pool)
	require.NoError(t, products.Create(ctx, &entity.Product{
		Name: "Descuento 50%", ProductCode: "OFF_50", Price: decimal.Zero, CategoryID: cat.ID,
	}))

	cases := map[string]int{
		"%":     1, // sólo "Descuento 50%"
		"_":     1, // sólo "OFF_50"
		"0%":    1,
		"F_5":   1,
		"plain": 1,
		"x%y":   0,
	}
	for search, want := range cases {
		list, total, err := products.List(ctx, repository.ProductFilter{Search: search, Limit: 10})
		require.NoError(t, err, search)
		assert.Equal(t, want, total, search)
		assert.Len(t, list, want, search)
	}
}

func TestPostgres_CategoryNameUsesLower(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	categories := postgres.NewCategoryRepository(pool)

	require.NoError(t, categories.Create(ctx, &entity.Category{Name: "Straße"}))
	require.NoError(t, categories.Create(ctx, &entity.Category{Name: "STRASSE"}))
	err := categories.Create(ctx, &entity.Category{Name: "strasse"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := categories.GetByName(ctx, "STRAßE")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Straße", got.Name)
}

func TestPostgres_Reports(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	categories := postgres.NewCategoryRepository(pool)
	products := postgres.NewProductRepository(pool)

	tools := &entity.Category{Name: "Herramientas"}
	require.NoError(t, categories.Create(ctx, tools))
	require.NoError(t, categories.Create(ctx, &entity.Category{Name: "Vacía"}))
	for i, tc := range []struct {
		price string
		qty   int
	}{{"2.00", 5}, {"9.99", 0}, {"1.50", 12}} {
		require.NoError(t, products.Create(ctx, &entity.Product{
			Name:        "P",
			ProductCode: "R-" + string(rune('A'+i)),
			Price:       decimal.RequireFromString(tc.price),
			Quantity:    tc.qty,
			CategoryID:  tools.ID,
		}))
	}

	reports := postgres.NewReportRepository(pool)
	rows, err := reports.StockByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Herramientas", rows[0].CategoryName)
	assert.Equal(t, int64(17), rows[0].TotalStock)
	assert.Equal(t, "28.00", rows[0].TotalValue.StringFixed(2))
	assert.Equal(t, 0, rows[1].TotalProducts)
	assert.True(t, rows[1].TotalValue.IsZero())

	low, err := reports.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, 0, low[0].Quantity)

	st, err := reports.DashboardStats(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalProducts)
	assert.Equal(t, 2, st.TotalCategories)
	assert.Equal(t, 2, st.LowStockCount)
}
