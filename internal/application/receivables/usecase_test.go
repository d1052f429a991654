package receivables_test

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
	"github.com/tu-usuario/negocio-api/internal/application/receivables"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/infrastructure/memory"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

type receivableEnv struct {
	store     *memory.Store
	uc        *receivables.ReceivableUseCase
	accounts  *memory.ReceivableAccountRepo
	entries   *memory.ReceivableEntryRepo
	customers *memory.CustomerRepo
}

func newReceivableEnv(t *testing.T) *receivableEnv {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	runner := memory.NewTxRunner(store)
	env := &receivableEnv{
		store:     store,
		accounts:  memory.NewReceivableAccountRepository(store),
		entries:   memory.NewReceivableEntryRepository(store),
		customers: memory.NewCustomerRepository(store),
	}
	env.uc = receivables.NewReceivableUseCase(runner, env.customers, env.accounts,
		env.entries, log)
	return env
}

func (e *receivableEnv) seedCustomer(t *testing.T) *entity.Customer {
	t.Helper()
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      "Cliente Frecuente",
		TaxID:     "1020304050",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.customers.Create(customer))
	return customer
}

func (e *receivableEnv) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := e.accounts.GetByID(accountID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.CurrentBalance
}

func TestOpenAccount_CreaCuentaConPrimeraEntrada(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)

	resp, err := env.uc.OpenAccount(context.Background(), "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentBalance.Equal(decimal.NewFromInt(100)))

	entries, err := env.entries.ListByAccount(resp.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryReasonLoan, entries[0].Reason)
	assert.True(t, entries[0].BalanceAfter.Equal(decimal.NewFromInt(100)),
		"la primera entrada lleva BalanceAfter igual al saldo inicial")
}

func TestOpenAccount_UnaCuentaPorCliente(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)

	_, err := env.uc.OpenAccount(context.Background(), "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = env.uc.OpenAccount(context.Background(), "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
}

func TestOpenAccount_NoPuedeNacerConAbono(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)

	_, err := env.uc.OpenAccount(context.Background(), "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Reason:     entity.EntryReasonAmortization,
		Amount:     decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenAccount_ClienteInexistente(t *testing.T) {
	env := newReceivableEnv(t)
	_, err := env.uc.OpenAccount(context.Background(), "user-test", dto.OpenReceivableRequest{
		CustomerID: "no-existe",
		Amount:     decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterEntry_SaldoCorrido(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Abono de 30: 100 - 30 = 70.
	e1, err := env.uc.RegisterEntry(ctx, "user-test", account.ID, dto.RegisterEntryRequest{
		Reason: entity.EntryReasonAmortization,
		Amount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.True(t, e1.BalanceAfter.Equal(decimal.NewFromInt(70)))

	// Nuevo préstamo de 50: 70 + 50 = 120.
	e2, err := env.uc.RegisterEntry(ctx, "user-test", account.ID, dto.RegisterEntryRequest{
		Reason: entity.EntryReasonLoan,
		Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, e2.BalanceAfter.Equal(decimal.NewFromInt(120)))

	assert.True(t, env.balance(t, account.ID).Equal(decimal.NewFromInt(120)))

	sum, err := env.entries.SumByAccount(account.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(120)),
		"Σ(+LOAN) − Σ(AMORTIZATION) debe coincidir con el saldo")
}

func TestRegisterEntry_AbonoExcesivo(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = env.uc.RegisterEntry(ctx, "user-test", account.ID, dto.RegisterEntryRequest{
		Reason: entity.EntryReasonAmortization,
		Amount: decimal.NewFromInt(150),
	})
	require.ErrorIs(t, err, domain.ErrExcessiveAmortization)
	assert.True(t, env.balance(t, account.ID).Equal(decimal.NewFromInt(100)),
		"el rechazo deja el saldo intacto")
}

func TestRegisterEntry_EntradaInvalida(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	casos := []dto.RegisterEntryRequest{
		{Reason: entity.EntryReasonLoan, Amount: decimal.Zero},
		{Reason: entity.EntryReasonLoan, Amount: decimal.NewFromInt(-5)},
		{Reason: "PAYMENT", Amount: decimal.NewFromInt(10)},
	}
	for _, in := range casos {
		_, err := env.uc.RegisterEntry(ctx, "user-test", account.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegisterEntry_ClaveIdempotenciaRepetida(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	in := dto.RegisterEntryRequest{
		Reason:         entity.EntryReasonAmortization,
		Amount:         decimal.NewFromInt(30),
		IdempotencyKey: "abono-001",
	}
	_, err = env.uc.RegisterEntry(ctx, "user-test", account.ID, in)
	require.NoError(t, err)

	_, err = env.uc.RegisterEntry(ctx, "user-test", account.ID, in)
	require.ErrorIs(t, err, domain.ErrDuplicateOperation)
	assert.True(t, env.balance(t, account.ID).Equal(decimal.NewFromInt(70)),
		"el reintento no debe abonar dos veces")
}

func TestRegisterEntry_FallaEnLibro_RollbackTotal(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	boom := errors.New("disco lleno")
	env.store.FailOnce("receivable_entries.Create", boom)

	_, err = env.uc.RegisterEntry(ctx, "user-test", account.ID, dto.RegisterEntryRequest{
		Reason: entity.EntryReasonAmortization,
		Amount: decimal.NewFromInt(30),
	})
	require.ErrorIs(t, err, boom)

	// El Update del saldo ocurrió antes del fallo: el rollback debe revertirlo.
	assert.True(t, env.balance(t, account.ID).Equal(decimal.NewFromInt(100)))
	entries, err := env.entries.ListByAccount(account.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "solo la entrada de apertura sobrevive al rollback")
}

func TestReconcile_Consistente(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = env.uc.RegisterEntry(ctx, "user-test", account.ID, dto.RegisterEntryRequest{
		Reason: entity.EntryReasonAmortization,
		Amount: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	resp, err := env.uc.Reconcile(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, resp.CurrentBalance.Equal(decimal.NewFromInt(60)))
}

func TestReconcile_DetectaDesbalance(t *testing.T) {
	env := newReceivableEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	account, err := env.uc.OpenAccount(ctx, "user-test", dto.OpenReceivableRequest{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Corromper el saldo cacheado directamente, sin pasar por el libro.
	stored, err := env.accounts.GetByID(account.ID)
	require.NoError(t, err)
	stored.CurrentBalance = decimal.NewFromInt(999)
	require.NoError(t, env.accounts.Update(stored))

	resp, err := env.uc.Reconcile(ctx, account.ID)
	require.ErrorIs(t, err, domain.ErrLedgerMismatch)
	require.NotNil(t, resp, "la respuesta acompaña al error para diagnóstico")
	assert.True(t, resp.CurrentBalance.Equal(decimal.NewFromInt(999)))
}
