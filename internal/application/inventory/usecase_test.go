package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/memory"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

type invEnv struct {
	store     *memory.Store
	register  *inventory.RegisterMovementUseCase
	reconcile *inventory.ReconcileUseCase
	accounts  *memory.InventoryAccountRepo
	movements *memory.StockMovementRepo
}

func newInvEnv(t *testing.T) *invEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	runner := memory.NewTxRunner(store)
	accounts := memory.NewInventoryAccountRepository(store)
	movements := memory.NewStockMovementRepository(store)
	return &invEnv{
		store:     store,
		register:  inventory.NewRegisterMovementUseCase(runner, log),
		reconcile: inventory.NewReconcileUseCase(accounts, movements, log),
		accounts:  accounts,
		movements: movements,
	}
}

// seedAccount crea una cuenta de inventario con el nivel inicial dado (vía libro,
// para que el invariante nivel == suma del libro se mantenga desde el arranque).
func (e *invEnv) seedAccount(t *testing.T, initial decimal.Decimal) string {
	t.Helper()
	now := time.Now()
	account := &entity.InventoryAccount{
		ProductID:    "prod-" + now.Format("150405.000000000"),
		MinimumLevel: decimal.NewFromInt(5),
		CurrentLevel: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.accounts.Create(account))
	if initial.GreaterThan(decimal.Zero) {
		_, err := e.register.RegisterMovement(context.Background(), inventory.MovementInput{
			InventoryAccountID: account.ID,
			Kind:               entity.MovementKindIn,
			Quantity:           initial,
			Reason:             "Saldo inicial",
			UserID:             "user-test",
		})
		require.NoError(t, err)
	}
	return account.ID
}

func TestRegisterMovement_EntradaActualizaNivelYLibro(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.Zero)

	resp, err := env.register.RegisterMovement(context.Background(), inventory.MovementInput{
		InventoryAccountID: accountID,
		Kind:               entity.MovementKindIn,
		Quantity:           decimal.NewFromInt(10),
		UserID:             "user-test",
	})
	require.NoError(t, err)
	assert.True(t, resp.ResultingLevel.Equal(decimal.NewFromInt(10)),
		"el nivel resultante debe ser 10, fue %s", resp.ResultingLevel)

	account, err := env.accounts.GetByID(accountID)
	require.NoError(t, err)
	assert.True(t, account.CurrentLevel.Equal(decimal.NewFromInt(10)))

	sum, err := env.movements.SumByAccount(accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(account.CurrentLevel),
		"el saldo cacheado debe coincidir con la suma del libro")
}

func TestRegisterMovement_SalidaDescuentaConSigno(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.NewFromInt(10))

	resp, err := env.register.RegisterMovement(context.Background(), inventory.MovementInput{
		InventoryAccountID: accountID,
		Kind:               entity.MovementKindOut,
		Quantity:           decimal.NewFromInt(4),
		UserID:             "user-test",
	})
	require.NoError(t, err)
	assert.True(t, resp.ResultingLevel.Equal(decimal.NewFromInt(6)))

	sum, err := env.movements.SumByAccount(accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(6)), "IN suma y OUT resta en el libro")
}

func TestRegisterMovement_StockInsuficiente_NoTocaNada(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.NewFromInt(5))

	_, err := env.register.RegisterMovement(context.Background(), inventory.MovementInput{
		InventoryAccountID: accountID,
		Kind:               entity.MovementKindOut,
		Quantity:           decimal.NewFromInt(8),
		UserID:             "user-test",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	account, err := env.accounts.GetByID(accountID)
	require.NoError(t, err)
	assert.True(t, account.CurrentLevel.Equal(decimal.NewFromInt(5)),
		"el rechazo no debe modificar el nivel")
	movs, err := env.movements.ListByAccount(accountID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo debe existir el movimiento inicial")
}

func TestRegisterMovement_EntradaInvalida(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.Zero)
	ctx := context.Background()

	casos := []inventory.MovementInput{
		{InventoryAccountID: "", Kind: entity.MovementKindIn, Quantity: decimal.NewFromInt(1)},
		{InventoryAccountID: accountID, Kind: entity.MovementKindIn, Quantity: decimal.Zero},
		{InventoryAccountID: accountID, Kind: entity.MovementKindIn, Quantity: decimal.NewFromInt(-3)},
		{InventoryAccountID: accountID, Kind: "TRANSFER", Quantity: decimal.NewFromInt(1)},
	}
	for _, in := range casos {
		_, err := env.register.RegisterMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegisterMovement_CuentaInexistente(t *testing.T) {
	env := newInvEnv(t)
	_, err := env.register.RegisterMovement(context.Background(), inventory.MovementInput{
		InventoryAccountID: "no-existe",
		Kind:               entity.MovementKindIn,
		Quantity:           decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_ClaveIdempotenciaRepetida(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.Zero)
	in := inventory.MovementInput{
		InventoryAccountID: accountID,
		Kind:               entity.MovementKindIn,
		Quantity:           decimal.NewFromInt(3),
		IdempotencyKey:     "mov-001",
		UserID:             "user-test",
	}
	_, err := env.register.RegisterMovement(context.Background(), in)
	require.NoError(t, err)

	_, err = env.register.RegisterMovement(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrDuplicateOperation)

	account, err := env.accounts.GetByID(accountID)
	require.NoError(t, err)
	assert.True(t, account.CurrentLevel.Equal(decimal.NewFromInt(3)),
		"el reintento no debe aplicar el movimiento dos veces")
}

func TestRegisterMovement_FallaEnLibro_RollbackTotal(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.NewFromInt(2))

	boom := errors.New("disco lleno")
	env.store.FailOnce("stock_movements.Create", boom)

	_, err := env.register.RegisterMovement(context.Background(), inventory.MovementInput{
		InventoryAccountID: accountID,
		Kind:               entity.MovementKindIn,
		Quantity:           decimal.NewFromInt(7),
		UserID:             "user-test",
	})
	require.ErrorIs(t, err, boom)

	// El Update del saldo ocurrió antes del fallo: el rollback debe revertirlo.
	account, err := env.accounts.GetByID(accountID)
	require.NoError(t, err)
	assert.True(t, account.CurrentLevel.Equal(decimal.NewFromInt(2)),
		"un fallo a mitad de transacción no puede dejar el saldo sin su entrada en el libro")
	sum, err := env.movements.SumByAccount(accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(account.CurrentLevel))
}

func TestReconcile_Consistente(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.NewFromInt(9))

	out, err := env.reconcile.Reconcile(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, out.Consistent)
	assert.True(t, out.CachedLevel.Equal(out.LedgerSum))
}

func TestReconcile_DetectaDesbalance(t *testing.T) {
	env := newInvEnv(t)
	accountID := env.seedAccount(t, decimal.NewFromInt(9))

	// Corromper el saldo cacheado directamente, sin pasar por el libro.
	account, err := env.accounts.GetByID(accountID)
	require.NoError(t, err)
	account.CurrentLevel = decimal.NewFromInt(99)
	require.NoError(t, env.accounts.Update(account))

	out, err := env.reconcile.Reconcile(context.Background(), accountID)
	require.ErrorIs(t, err, domain.ErrLedgerMismatch)
	require.NotNil(t, out)
	assert.False(t, out.Consistent)
	assert.True(t, out.CachedLevel.Equal(decimal.NewFromInt(99)))
	assert.True(t, out.LedgerSum.Equal(decimal.NewFromInt(9)))
}
