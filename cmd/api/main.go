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
	"github.com/tu-usuario/negocio-api/internal/application/auth"
	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/application/purchases"
	"github.com/tu-usuario/negocio-api/internal/application/receivables"
	"github.com/tu-usuario/negocio-api/internal/application/sales"
	"github.com/tu-usuario/negocio-api/internal/application/usecase"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/negocio-api/internal/interfaces/http"
	"github.com/tu-usuario/negocio-api/pkg/config"
	"github.com/tu-usuario/negocio-api/pkg/logger"
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

	// Repos atados al pool (lecturas y escrituras fuera de transacción).
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	accountRepo := postgres.NewInventoryAccountRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	payableRepo := postgres.NewPayableAccountRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	receivableAccountRepo := postgres.NewReceivableAccountRepository(pool)
	receivableEntryRepo := postgres.NewReceivableEntryRepository(pool)

	txRunner := postgres.NewTxRunner(pool)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, log)
	reconcileUC := inventory.NewReconcileUseCase(accountRepo, movementRepo, log)
	purchaseUC := purchases.NewPurchaseUseCase(
		txRunner, registerMovementUC,
		supplierRepo, productRepo, accountRepo, purchaseRepo, payableRepo,
		purchases.Options{OverstockGuard: cfg.Purchases.OverstockGuard},
	)
	saleUC := sales.NewSaleUseCase(
		txRunner, registerMovementUC,
		customerRepo, productRepo, accountRepo, saleRepo,
	)
	receivableUC := receivables.NewReceivableUseCase(
		txRunner, customerRepo, receivableAccountRepo, receivableEntryRepo, log,
	)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, accountRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Negocio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		SupplierUC:       supplierUC,
		CustomerUC:       customerUC,
		RegisterMovement: registerMovementUC,
		ReconcileUC:      reconcileUC,
		PurchaseUC:       purchaseUC,
		SaleUC:           saleUC,
		ReceivableUC:     receivableUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
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
