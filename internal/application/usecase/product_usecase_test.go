package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/usecase"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/memory"
)

func newProductUC(store *memory.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(
		memory.NewTxRunner(store),
		memory.NewProductRepository(store),
		memory.NewInventoryAccountRepository(store),
	)
}

func TestCreateProduct_NaceConCuentaDeInventario(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)

	resp, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Martillo",
		Price:        decimal.NewFromInt(25),
		MinimumLevel: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	account, err := memory.NewInventoryAccountRepository(store).GetByProductID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, account, "todo producto nace con su cuenta de inventario")
	assert.True(t, account.CurrentLevel.Equal(decimal.Zero))
	assert.True(t, account.MinimumLevel.Equal(decimal.NewFromInt(10)))
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "SKU-001", Name: "Martillo", Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		SKU: "SKU-001", Name: "Otro martillo", Price: decimal.NewFromInt(30),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_EntradaInvalida(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)
	ctx := context.Background()

	casos := []dto.CreateProductRequest{
		{SKU: "", Name: "Sin SKU", Price: decimal.NewFromInt(1)},
		{SKU: "SKU-X", Name: "", Price: decimal.NewFromInt(1)},
		{SKU: "SKU-X", Name: "Precio negativo", Price: decimal.NewFromInt(-1)},
	}
	for _, in := range casos {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCreateProduct_FallaCuenta_NoQuedaProductoHuerfano(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)

	boom := errors.New("conexión perdida")
	store.FailOnce("inventory_accounts.Create", boom)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "SKU-001", Name: "Martillo", Price: decimal.NewFromInt(25),
	})
	require.ErrorIs(t, err, boom)

	products, err := memory.NewProductRepository(store).List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, products, "producto y cuenta nacen juntos o no nacen")
}

func TestUpdateProduct(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "SKU-001", Name: "Martillo", Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	newName := "Martillo de uña"
	newPrice := decimal.NewFromInt(28)
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.True(t, updated.Price.Equal(newPrice))

	_, err = uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
