package purchases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/application/purchases"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/memory"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

type purchaseEnv struct {
	store     *memory.Store
	uc        *purchases.PurchaseUseCase
	accounts  *memory.InventoryAccountRepo
	movements *memory.StockMovementRepo
	purchases *memory.PurchaseRepo
	payables  *memory.PayableAccountRepo
	suppliers *memory.SupplierRepo
	products  *memory.ProductRepo
}

func newPurchaseEnv(t *testing.T, opts purchases.Options) *purchaseEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	runner := memory.NewTxRunner(store)
	stock := inventory.NewRegisterMovementUseCase(runner, log)
	env := &purchaseEnv{
		store:     store,
		accounts:  memory.NewInventoryAccountRepository(store),
		movements: memory.NewStockMovementRepository(store),
		purchases: memory.NewPurchaseRepository(store),
		payables:  memory.NewPayableAccountRepository(store),
		suppliers: memory.NewSupplierRepository(store),
		products:  memory.NewProductRepository(store),
	}
	env.uc = purchases.NewPurchaseUseCase(runner, stock, env.suppliers, env.products,
		env.accounts, env.purchases, env.payables, opts)
	return env
}

// seedProduct crea producto con su cuenta de inventario y devuelve (productID, accountID).
func (e *purchaseEnv) seedProduct(t *testing.T, sku string, minimum int64) (string, string) {
	t.Helper()
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      "Producto " + sku,
		Price:     decimal.NewFromInt(50),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.products.Create(product))
	account := &entity.InventoryAccount{
		ProductID:    product.ID,
		MinimumLevel: decimal.NewFromInt(minimum),
		CurrentLevel: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.accounts.Create(account))
	return product.ID, account.ID
}

func (e *purchaseEnv) seedSupplier(t *testing.T) *entity.Supplier {
	t.Helper()
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      "Distribuidora Norte",
		TaxID:     "900123456-7",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.suppliers.Create(supplier))
	return supplier
}

func (e *purchaseEnv) level(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := e.accounts.GetByID(accountID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.CurrentLevel
}

func TestRegisterPurchase_CreaTodoEnUnaTransaccion(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)
	prodB, accB := env.seedProduct(t, "SKU-B", 100)

	resp, err := env.uc.RegisterPurchase(context.Background(), "user-test", dto.RegisterPurchaseRequest{
		Supplier: dto.SupplierRefRequest{SupplierID: supplier.ID},
		Number:   "FC-001",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
			{ProductID: prodB, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(90)), "total 2*30 + 3*10")
	assert.True(t, resp.Active)
	require.Len(t, resp.Lines, 2)
	require.NotNil(t, resp.Payable)
	assert.True(t, resp.Payable.AmountDue.Equal(decimal.NewFromInt(90)))
	assert.False(t, resp.Payable.Settled)

	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(2)))
	assert.True(t, env.level(t, accB).Equal(decimal.NewFromInt(3)))

	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindIn, movs[0].Kind)
	assert.Equal(t, entity.ReasonPurchase, movs[0].Reason)
	assert.Equal(t, resp.ID, movs[0].Reference, "el movimiento referencia a su compra")
}

func TestRegisterPurchase_ResuelveProveedorPorNIT(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	prodA, _ := env.seedProduct(t, "SKU-A", 100)

	in := dto.RegisterPurchaseRequest{
		Supplier: dto.SupplierRefRequest{Name: "Ferretería El Tornillo", TaxID: "800999888-1"},
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	}
	resp1, err := env.uc.RegisterPurchase(context.Background(), "user-test", in)
	require.NoError(t, err)

	created, err := env.suppliers.GetByTaxID("800999888-1")
	require.NoError(t, err)
	require.NotNil(t, created, "el proveedor inexistente se crea con la primera compra")
	assert.Equal(t, created.ID, resp1.SupplierID)

	// La segunda compra al mismo NIT reutiliza el proveedor en vez de duplicarlo.
	resp2, err := env.uc.RegisterPurchase(context.Background(), "user-test", in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp2.SupplierID)
}

func TestRegisterPurchase_SinCuentaDeInventario_TodoONada(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	// Producto sin cuenta de inventario asociada.
	now := time.Now()
	orphan := &entity.Product{
		ID: uuid.New().String(), SKU: "SKU-HUERFANO", Name: "Sin cuenta",
		Price: decimal.NewFromInt(5), Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, env.products.Create(orphan))

	_, err := env.uc.RegisterPurchase(context.Background(), "user-test", dto.RegisterPurchaseRequest{
		Supplier: dto.SupplierRefRequest{SupplierID: supplier.ID},
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
			{ProductID: orphan.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
		},
	})
	require.ErrorIs(t, err, domain.ErrMissingInventoryRecord)

	assert.True(t, env.level(t, accA).Equal(decimal.Zero),
		"la línea válida no debe quedar aplicada si otra línea falla")
	list, err := env.purchases.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisterPurchase_EntradaInvalida(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, _ := env.seedProduct(t, "SKU-A", 100)
	ctx := context.Background()

	casos := [][]dto.PurchaseLineRequest{
		nil,
		{{ProductID: "", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
		{{ProductID: prodA, Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1)}},
		{{ProductID: prodA, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-1)}},
	}
	for _, lines := range casos {
		_, err := env.uc.RegisterPurchase(ctx, "user-test", dto.RegisterPurchaseRequest{
			Supplier: dto.SupplierRefRequest{SupplierID: supplier.ID},
			Lines:    lines,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegisterPurchase_FallaCuentaPorPagar_RollbackTotal(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	boom := errors.New("conexión perdida")
	env.store.FailOnce("payable_accounts.Create", boom)

	_, err := env.uc.RegisterPurchase(context.Background(), "user-test", dto.RegisterPurchaseRequest{
		Supplier: dto.SupplierRefRequest{SupplierID: supplier.ID},
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(25)},
		},
	})
	require.ErrorIs(t, err, boom)

	// Cabecera, detalle y stock ya se habían escrito: el rollback revierte todo.
	assert.True(t, env.level(t, accA).Equal(decimal.Zero))
	list, err := env.purchases.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	sum, err := env.movements.SumByAccount(accA)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.Zero))
}

func TestRegisterPurchase_ClaveIdempotenciaRepetida(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	in := dto.RegisterPurchaseRequest{
		Supplier:       dto.SupplierRefRequest{SupplierID: supplier.ID},
		IdempotencyKey: "compra-001",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
		},
	}
	_, err := env.uc.RegisterPurchase(context.Background(), "user-test", in)
	require.NoError(t, err)

	_, err = env.uc.RegisterPurchase(context.Background(), "user-test", in)
	require.ErrorIs(t, err, domain.ErrDuplicateOperation)
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(2)),
		"el reintento no debe duplicar el stock")
}

func registerSimplePurchase(t *testing.T, env *purchaseEnv, supplierID, productID string, qty, price int64) *dto.PurchaseResponse {
	t.Helper()
	resp, err := env.uc.RegisterPurchase(context.Background(), "user-test", dto.RegisterPurchaseRequest{
		Supplier: dto.SupplierRefRequest{SupplierID: supplierID},
		Lines: []dto.PurchaseLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestRevisePurchase_ReemplazaLineasYRecalculaTotal(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 5, 30)

	revised, err := env.uc.RevisePurchase(context.Background(), "user-test", original.ID, dto.RevisePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)
	assert.True(t, revised.Total.Equal(decimal.NewFromInt(60)))
	require.NotNil(t, revised.Payable)
	assert.True(t, revised.Payable.AmountDue.Equal(decimal.NewFromInt(60)),
		"la cuenta por pagar sigue al total recalculado")

	// Nivel neto: +5 original, -5 compensatorio, +2 nuevo.
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(2)))

	// El libro conserva la historia completa: IN 5, OUT 5, IN 2.
	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	sum, err := env.movements.SumByAccount(accA)
	require.NoError(t, err)
	assert.True(t, sum.Equal(env.level(t, accA)))

	details, err := env.purchases.GetDetails(original.ID)
	require.NoError(t, err)
	require.Len(t, details, 1, "los detalles viejos se reemplazan, no se acumulan")
	assert.True(t, details[0].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestRevisePurchase_GuardiaDeSobrestock(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{OverstockGuard: true})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 4)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 3, 10)

	// Tras compensar (-3) el nivel queda en 0; la línea nueva de 5 supera el umbral de 4.
	_, err := env.uc.RevisePurchase(context.Background(), "user-test", original.ID, dto.RevisePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.ErrorIs(t, err, domain.ErrOverstock)

	// El rechazo revierte también los movimientos compensatorios.
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(3)))
	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRevisePurchase_SinGuardiaPermiteExcederUmbral(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{OverstockGuard: false})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 4)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 3, 10)

	_, err := env.uc.RevisePurchase(context.Background(), "user-test", original.ID, dto.RevisePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(5)))
}

func TestCancelPurchase_RevierteStockYEliminaCuentaPorPagar(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 4, 30)

	err := env.uc.CancelPurchase(context.Background(), "user-test", original.ID, "")
	require.NoError(t, err)

	assert.True(t, env.level(t, accA).Equal(decimal.Zero))

	purchase, err := env.purchases.GetByID(original.ID)
	require.NoError(t, err)
	require.NotNil(t, purchase, "la compra anulada no se borra")
	assert.False(t, purchase.Active)

	payable, err := env.payables.GetByPurchaseID(original.ID)
	require.NoError(t, err)
	assert.Nil(t, payable, "la cuenta por pagar de una compra anulada se elimina")

	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.ReasonPurchaseCancelled, movs[0].Reason)
	assert.Equal(t, entity.MovementKindOut, movs[0].Kind)
}

func TestCancelPurchase_ReanularSeRechaza(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 100)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 4, 30)
	require.NoError(t, env.uc.CancelPurchase(context.Background(), "user-test", original.ID, ""))

	err := env.uc.CancelPurchase(context.Background(), "user-test", original.ID, "")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.True(t, env.level(t, accA).Equal(decimal.Zero),
		"re-anular no debe volver a restar stock")
}

func TestRevisePurchase_CompraAnulada(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, _ := env.seedProduct(t, "SKU-A", 100)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 4, 30)
	require.NoError(t, env.uc.CancelPurchase(context.Background(), "user-test", original.ID, ""))

	_, err := env.uc.RevisePurchase(context.Background(), "user-test", original.ID, dto.RevisePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestSettlePayable(t *testing.T) {
	env := newPurchaseEnv(t, purchases.Options{})
	supplier := env.seedSupplier(t)
	prodA, _ := env.seedProduct(t, "SKU-A", 100)

	original := registerSimplePurchase(t, env, supplier.ID, prodA, 2, 30)

	resp, err := env.uc.SettlePayable(context.Background(), original.ID)
	require.NoError(t, err)
	assert.True(t, resp.Settled)
	assert.True(t, resp.AmountDue.Equal(decimal.NewFromInt(60)))

	_, err = env.uc.SettlePayable(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
