package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcastano/stockcore-api/internal/application/check"
	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/application/purchase"
	"github.com/jcastano/stockcore-api/internal/application/reorder"
	"github.com/jcastano/stockcore-api/internal/application/usecase"
	"github.com/jcastano/stockcore-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastano/stockcore-api/internal/interfaces/http"
	"github.com/jcastano/stockcore-api/pkg/config"
	"github.com/jcastano/stockcore-api/pkg/jwt"
	"github.com/jcastano/stockcore-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	checkRepo := postgres.NewInventoryCheckRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := ledger.NewStockLedgerUseCase(txRunner, productRepo, movementRepo)
	lifecycleUC := purchase.NewLifecycleUseCase(txRunner, orderRepo, productRepo, ledgerUC)
	reorderUC := reorder.NewEngineUseCase(productRepo, supplierRepo, orderRepo, lifecycleUC, log)
	reconcilerUC := check.NewReconcilerUseCase(txRunner, checkRepo, productRepo)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiryMinutes)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockCore API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		Ledger:     ledgerUC,
		Lifecycle:  lifecycleUC,
		Reorder:    reorderUC,
		Reconciler: reconcilerUC,
		Tokens:     tokens,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
