package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/warehouse-ledger/docs"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/ports"
	"github.com/jhoicas/warehouse-ledger/internal/application/report"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/warehouse-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/warehouse-ledger/internal/interfaces/http"
	"github.com/jhoicas/warehouse-ledger/pkg/config"
	"github.com/jhoicas/warehouse-ledger/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "aplica las migraciones y termina")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if *migrateOnly {
		log.Info().Msg("migraciones aplicadas")
		return
	}

	// Caché de reportes: Redis si REDIS_URL está definido; si no, sin caché.
	var reportCache ports.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		reportCache = cache.NewRedisReportCache(rdb)
		log.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("caché de reportes en Redis")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	historyRepo := postgres.NewInventoryHistoryRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, reportCache, inventory.LedgerConfig{
		LogNoopAdjustments: cfg.Ledger.LogNoopAdjustments,
	}, log.Component("ledger"))
	historyUC := inventory.NewHistoryUseCase(historyRepo, productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, reportCache, log.Component("categories"))
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, reportCache, log.Component("products"))

	// PDF: reporte de stock por categoría
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	reportUC := report.NewReportUseCase(reportRepo, reportCache, pdfGenerator, report.Config{
		LowStockThreshold: cfg.Reports.LowStockThreshold,
		CacheTTL:          cfg.Redis.CacheTTL,
	}, log.Component("reports"))

	errs := httpRouter.NewErrorWriter(log.Component("http"), cfg.App.IsProduction())
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errs.Handler(),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse Ledger API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledgerUC,
		History:     historyUC,
		Reports:     reportUC,
		Categories:  categoryUC,
		Products:    productUC,
		Errors:      errs,
		Log:         log.Component("http"),
		ServiceName: cfg.App.Name,
		CORSOrigin:  cfg.HTTP.CORSOrigin,
		Health:      pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
