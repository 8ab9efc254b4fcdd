package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/report"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.LedgerUseCase
	History     *inventory.HistoryUseCase
	Reports     *report.ReportUseCase
	Categories  *usecase.CategoryUseCase
	Products    *usecase.ProductUseCase
	Errors      *ErrorWriter
	Log         zerolog.Logger
	ServiceName string
	CORSOrigin  string
	// Health verifica dependencias externas (base de datos); nil = siempre ok.
	Health func(ctx context.Context) error
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID())
	app.Use(RequestLogger(deps.Log))
	app.Use(recover.New())
	if deps.CORSOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigin,
			AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		}))
	}

	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.History, deps.Errors)
	inv := api.Group("/inventory")
	inv.Get("/history", inventoryHandler.AllHistory)
	inv.Post("/:productId/increase", inventoryHandler.Increase)
	inv.Post("/:productId/decrease", inventoryHandler.Decrease)
	inv.Post("/:productId/adjust", inventoryHandler.Adjust)
	inv.Get("/:productId/history", inventoryHandler.ProductHistory)

	// Reports
	reportHandler := NewReportHandler(deps.Reports, deps.Errors)
	reports := api.Group("/reports")
	reports.Get("/stock-by-category", reportHandler.StockByCategory)
	reports.Get("/stock-by-category/pdf", reportHandler.StockByCategoryPDF)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/dashboard", reportHandler.Dashboard)

	// Categories
	categoryHandler := NewCategoryHandler(deps.Categories, deps.Errors)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products
	productHandler := NewProductHandler(deps.Products, deps.Errors)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				deps.Log.Warn().Err(err).Msg("health check")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
