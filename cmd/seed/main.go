// seed carga categorías y productos de ejemplo. No hace nada si ya existen categorías.
//
// Uso: go run ./cmd/seed
// Usa la misma configuración que la API (DATABASE_URL o DB_HOST, DB_PORT, etc.) y aplica las migraciones antes.
package main

import (
	"context"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-ledger/pkg/config"
	"github.com/jhoicas/warehouse-ledger/pkg/logger"
)

type seedCategory struct {
	name        string
	description string
}

type seedProduct struct {
	name     string
	code     string
	price    string
	quantity int
	category string
}

var categories = []seedCategory{
	{"Electronics", "Electronic devices and accessories"},
	{"Clothing", "Apparel and fashion items"},
	{"Food & Beverages", "Food products and drinks"},
	{"Home & Garden", "Home improvement and garden supplies"},
	{"Office Supplies", "Office equipment and stationery"},
}

var products = []seedProduct{
	{"Wireless Mouse", "ELEC-001", "29.99", 150, "Electronics"},
	{"USB-C Hub", "ELEC-002", "49.99", 75, "Electronics"},
	{"Mechanical Keyboard", "ELEC-003", "89.99", 50, "Electronics"},
	{"Cotton T-Shirt", "CLTH-001", "19.99", 200, "Clothing"},
	{"Denim Jeans", "CLTH-002", "59.99", 100, "Clothing"},
	{"Organic Coffee Beans", "FOOD-001", "14.99", 300, "Food & Beverages"},
	{"Green Tea Pack", "FOOD-002", "8.99", 250, "Food & Beverages"},
	{"Garden Hose", "HOME-001", "34.99", 40, "Home & Garden"},
	{"Plant Pot Set", "HOME-002", "24.99", 80, "Home & Garden"},
	{"A4 Paper Ream", "OFFC-001", "7.99", 500, "Office Supplies"},
	{"Ballpoint Pen Pack", "OFFC-002", "4.99", 1000, "Office Supplies"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	noCache := cache.NoopReportCache{}
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, noCache, log.Component("categories"))
	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), categoryRepo, noCache, log.Component("products"))

	existing, err := categoryUC.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías")
	}
	if len(existing) > 0 {
		log.Warn().Int("categories", len(existing)).Msg("la base ya tiene datos; no se carga nada")
		return
	}

	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		desc := c.description
		out, err := categoryUC.Create(ctx, dto.CreateCategoryRequest{Name: c.name, Description: &desc})
		if err != nil {
			log.Error().Err(err).Str("category", c.name).Msg("crear categoría")
			os.Exit(1)
		}
		ids[c.name] = out.ID
	}
	log.Info().Int("count", len(categories)).Msg("categorías insertadas")

	for _, p := range products {
		price := decimal.RequireFromString(p.price)
		qty := p.quantity
		_, err := productUC.Create(ctx, dto.CreateProductRequest{
			Name:        p.name,
			ProductCode: p.code,
			Price:       &price,
			Quantity:    &qty,
			CategoryID:  ids[p.category],
		})
		if err != nil {
			log.Error().Err(err).Str("product_code", p.code).Msg("crear producto")
			os.Exit(1)
		}
	}
	log.Info().Int("count", len(products)).Msg("productos insertados")
}
