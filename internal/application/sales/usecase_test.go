package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/application/sales"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/memory"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

type saleEnv struct {
	store     *memory.Store
	uc        *sales.SaleUseCase
	inventory *inventory.RegisterMovementUseCase
	accounts  *memory.InventoryAccountRepo
	movements *memory.StockMovementRepo
	sales     *memory.SaleRepo
	customers *memory.CustomerRepo
	products  *memory.ProductRepo
}

func newSaleEnv(t *testing.T) *saleEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	runner := memory.NewTxRunner(store)
	stock := inventory.NewRegisterMovementUseCase(runner, log)
	env := &saleEnv{
		store:     store,
		inventory: stock,
		accounts:  memory.NewInventoryAccountRepository(store),
		movements: memory.NewStockMovementRepository(store),
		sales:     memory.NewSaleRepository(store),
		customers: memory.NewCustomerRepository(store),
		products:  memory.NewProductRepository(store),
	}
	env.uc = sales.NewSaleUseCase(runner, stock, env.customers, env.products,
		env.accounts, env.sales)
	return env
}

// seedProduct crea producto, cuenta de inventario y stock inicial vía el libro.
func (e *saleEnv) seedProduct(t *testing.T, sku string, stock int64) (string, string) {
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
		MinimumLevel: decimal.NewFromInt(2),
		CurrentLevel: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.accounts.Create(account))
	if stock > 0 {
		_, err := e.inventory.RegisterMovement(context.Background(), inventory.MovementInput{
			InventoryAccountID: account.ID,
			Kind:               entity.MovementKindIn,
			Quantity:           decimal.NewFromInt(stock),
			Reason:             "Saldo inicial",
			UserID:             "user-test",
		})
		require.NoError(t, err)
	}
	return product.ID, account.ID
}

func (e *saleEnv) level(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := e.accounts.GetByID(accountID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.CurrentLevel
}

func TestRegisterSale_DescuentaStockYDejaRastro(t *testing.T) {
	env := newSaleEnv(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 10)
	prodB, accB := env.seedProduct(t, "SKU-B", 5)

	resp, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(50)},
			{ProductID: prodB, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(190)), "total 3*50 + 2*20")
	assert.True(t, resp.Active)
	require.Len(t, resp.Lines, 2)

	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(7)))
	assert.True(t, env.level(t, accB).Equal(decimal.NewFromInt(3)))

	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindOut, movs[0].Kind)
	assert.Equal(t, entity.ReasonSale, movs[0].Reason)
	assert.Equal(t, resp.ID, movs[0].Reference)
}

func TestRegisterSale_StockInsuficienteRechazaTodaLaVenta(t *testing.T) {
	env := newSaleEnv(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 10)
	prodB, accB := env.seedProduct(t, "SKU-B", 1)

	_, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(50)},
			{ProductID: prodB, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La primera línea ya había descontado: el rollback la revierte.
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(10)))
	assert.True(t, env.level(t, accB).Equal(decimal.NewFromInt(1)))
	list, err := env.sales.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegisterSale_ClienteInexistente(t *testing.T) {
	env := newSaleEnv(t)
	prodA, _ := env.seedProduct(t, "SKU-A", 10)

	_, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		CustomerID: "no-existe",
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterSale_VentaDeMostradorSinCliente(t *testing.T) {
	env := newSaleEnv(t)
	prodA, _ := env.seedProduct(t, "SKU-A", 10)

	resp, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.CustomerID)
}

func TestRegisterSale_ClaveIdempotenciaRepetida(t *testing.T) {
	env := newSaleEnv(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 10)

	in := dto.RegisterSaleRequest{
		IdempotencyKey: "venta-001",
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	}
	_, err := env.uc.RegisterSale(context.Background(), "user-test", in)
	require.NoError(t, err)

	_, err = env.uc.RegisterSale(context.Background(), "user-test", in)
	require.ErrorIs(t, err, domain.ErrDuplicateOperation)
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(8)),
		"el reintento no debe descontar dos veces")
}

func TestCancelSale_ReintegraStock(t *testing.T) {
	env := newSaleEnv(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 10)

	resp, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, env.uc.CancelSale(context.Background(), "user-test", resp.ID, ""))

	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(10)))

	sale, err := env.sales.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, sale, "la venta anulada no se borra")
	assert.False(t, sale.Active)

	movs, err := env.movements.ListByAccount(accA, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementKindIn, movs[0].Kind)
	assert.Equal(t, entity.ReasonSaleCancelled, movs[0].Reason)
}

func TestCancelSale_ReanularSeRechaza(t *testing.T) {
	env := newSaleEnv(t)
	prodA, accA := env.seedProduct(t, "SKU-A", 10)

	resp, err := env.uc.RegisterSale(context.Background(), "user-test", dto.RegisterSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: prodA, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, env.uc.CancelSale(context.Background(), "user-test", resp.ID, ""))

	err = env.uc.CancelSale(context.Background(), "user-test", resp.ID, "")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.True(t, env.level(t, accA).Equal(decimal.NewFromInt(10)),
		"re-anular no debe volver a sumar stock")
}
