package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/auth"
	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/application/purchases"
	"github.com/tu-usuario/negocio-api/internal/application/receivables"
	"github.com/tu-usuario/negocio-api/internal/application/sales"
	"github.com/tu-usuario/negocio-api/internal/application/usecase"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	SupplierUC       *usecase.SupplierUseCase
	CustomerUC       *usecase.CustomerUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	ReconcileUC      *inventory.ReconcileUseCase
	PurchaseUC       *purchases.PurchaseUseCase
	SaleUC           *sales.SaleUseCase
	ReceivableUC     *receivables.ReceivableUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Revisar y anular quedan restringidos a
// admin; registrar compras y movimientos a admin y bodeguero; ventas y cuentas
// por cobrar permiten también vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	anyStaff := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", warehouseStaff, productHandler.Create)
	products.Get("/", anyStaff, productHandler.List)
	products.Get("/:id", anyStaff, productHandler.GetByID)
	products.Put("/:id", warehouseStaff, productHandler.Update)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", warehouseStaff, supplierHandler.Create)
	suppliers.Get("/", anyStaff, supplierHandler.List)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", anyStaff, customerHandler.Create)
	customers.Get("/", anyStaff, customerHandler.List)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.ReconcileUC)
	invGroup.Post("/movements", warehouseStaff, inventoryHandler.RegisterMovement)
	invGroup.Get("/accounts/:id", anyStaff, inventoryHandler.GetAccount)
	invGroup.Get("/accounts/:id/movements", anyStaff, inventoryHandler.ListMovements)
	invGroup.Get("/accounts/:id/reconcile", warehouseStaff, inventoryHandler.Reconcile)

	// Purchases (protegido)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", warehouseStaff, purchaseHandler.Register)
	purchasesGroup.Get("/", anyStaff, purchaseHandler.List)
	purchasesGroup.Get("/:id", anyStaff, purchaseHandler.GetByID)
	purchasesGroup.Put("/:id", adminOnly, purchaseHandler.Revise)
	purchasesGroup.Post("/:id/cancel", adminOnly, purchaseHandler.Cancel)
	purchasesGroup.Post("/:id/payable/settle", warehouseStaff, purchaseHandler.SettlePayable)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", anyStaff, saleHandler.Register)
	salesGroup.Get("/", anyStaff, saleHandler.List)
	salesGroup.Get("/:id", anyStaff, saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", adminOnly, saleHandler.Cancel)

	// Receivables (protegido)
	receivablesGroup := protected.Group("/receivables")
	receivableHandler := NewReceivableHandler(deps.ReceivableUC)
	receivablesGroup.Post("/", anyStaff, receivableHandler.OpenAccount)
	receivablesGroup.Get("/:id", anyStaff, receivableHandler.GetAccount)
	receivablesGroup.Post("/:id/entries", anyStaff, receivableHandler.RegisterEntry)
	receivablesGroup.Get("/:id/entries", anyStaff, receivableHandler.ListEntries)
	receivablesGroup.Get("/:id/reconcile", warehouseStaff, receivableHandler.Reconcile)
}
