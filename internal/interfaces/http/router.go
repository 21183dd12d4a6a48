package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/stockcore-api/internal/application/check"
	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/application/purchase"
	"github.com/jcastano/stockcore-api/internal/application/reorder"
	"github.com/jcastano/stockcore-api/internal/application/usecase"
	"github.com/jcastano/stockcore-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	Ledger     *ledger.StockLedgerUseCase
	Lifecycle  *purchase.LifecycleUseCase
	Reorder    *reorder.EngineUseCase
	Reconciler *check.ReconcilerUseCase
	Tokens     *jwt.Manager
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Stock ledger (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger)
	stock.Post("/movements", stockHandler.ApplyMovement)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Post("/movements/:id/reverse", stockHandler.ReverseMovement)
	stock.Post("/products/:id/recompute", stockHandler.RecomputeProduct)

	// Purchase orders (protegido)
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Lifecycle)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/transition", orderHandler.Transition)

	// Reorder engine (protegido)
	reorders := protected.Group("/reorders")
	reorderHandler := NewReorderHandler(deps.Reorder)
	reorders.Post("/scan", reorderHandler.Scan)

	// Inventory checks (protegido)
	checks := protected.Group("/inventory-checks")
	checkHandler := NewInventoryCheckHandler(deps.Reconciler)
	checks.Post("/", checkHandler.Create)
	checks.Get("/", checkHandler.List)
	checks.Get("/:id", checkHandler.GetByID)
	checks.Put("/:id", checkHandler.Update)
	checks.Post("/:id/complete", checkHandler.Complete)
	checks.Post("/:id/cancel", checkHandler.Cancel)
	checks.Delete("/:id", checkHandler.Delete)
}
