package receivables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

// ReceivableUseCase orquesta cuentas por cobrar: abrir la cuenta de un cliente
// (máximo una) y registrar préstamos y abonos recalculando el saldo corrido.
type ReceivableUseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	accountRepo  repository.ReceivableAccountRepository
	entryRepo    repository.ReceivableEntryRepository
	log          *logger.Logger
}

// NewReceivableUseCase construye el caso de uso.
func NewReceivableUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	accountRepo repository.ReceivableAccountRepository,
	entryRepo repository.ReceivableEntryRepository,
	log *logger.Logger,
) *ReceivableUseCase {
	return &ReceivableUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		log:          log,
	}
}

// OpenAccount crea la cuenta por cobrar del cliente con el saldo inicial y la
// primera entrada del libro (BalanceAfter = saldo inicial). Un cliente solo puede
// tener una cuenta: se rechaza con ErrDuplicateAccount si ya existe.
func (uc *ReceivableUseCase) OpenAccount(ctx context.Context, userID string, in dto.OpenReceivableRequest) (*dto.ReceivableAccountResponse, error) {
	if in.CustomerID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// La primera entrada siempre es un préstamo: una cuenta no puede nacer con un abono.
	if in.Reason != "" && in.Reason != entity.EntryReasonLoan {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.accountRepo.GetByCustomerID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateAccount
	}

	now := time.Now()
	account := &entity.ReceivableAccount{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		CurrentBalance: in.Amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.RunReceivable(ctx, func(
		accounts repository.ReceivableAccountRepository,
		entries repository.ReceivableEntryRepository,
		keys repository.OperationKeyRepository,
	) error {
		if in.IdempotencyKey != "" {
			if err := keys.Claim(in.IdempotencyKey, "open_receivable"); err != nil {
				return err
			}
		}
		// Create retorna ErrDuplicateAccount bajo carrera (índice único por cliente).
		if err := accounts.Create(account); err != nil {
			return err
		}
		entry := &entity.ReceivableEntry{
			ID:                  uuid.New().String(),
			ReceivableAccountID: account.ID,
			Reason:              entity.EntryReasonLoan,
			Amount:              in.Amount,
			BalanceAfter:        in.Amount,
			Date:                now,
			CreatedAt:           now,
			CreatedBy:           userID,
		}
		return entries.Create(entry)
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// RegisterEntry registra un préstamo o abono: bloquea la cuenta, valida contra el
// saldo recién leído, escribe el nuevo saldo y agrega la entrada con BalanceAfter,
// todo en una transacción. Un abono mayor al saldo se rechaza con
// ErrExcessiveAmortization dejando el saldo intacto.
func (uc *ReceivableUseCase) RegisterEntry(ctx context.Context, userID, accountID string, in dto.RegisterEntryRequest) (*dto.ReceivableEntryResponse, error) {
	if accountID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Reason != entity.EntryReasonLoan && in.Reason != entity.EntryReasonAmortization {
		return nil, domain.ErrInvalidInput
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	var resp *dto.ReceivableEntryResponse
	err := uc.txRunner.RunReceivable(ctx, func(
		accounts repository.ReceivableAccountRepository,
		entries repository.ReceivableEntryRepository,
		keys repository.OperationKeyRepository,
	) error {
		if in.IdempotencyKey != "" {
			if err := keys.Claim(in.IdempotencyKey, "register_receivable_entry"); err != nil {
				return err
			}
		}
		account, err := accounts.GetForUpdate(accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		newBalance := account.CurrentBalance.Add(in.Amount)
		if in.Reason == entity.EntryReasonAmortization {
			if in.Amount.GreaterThan(account.CurrentBalance) {
				return domain.ErrExcessiveAmortization
			}
			newBalance = account.CurrentBalance.Sub(in.Amount)
		}
		now := time.Now()
		account.CurrentBalance = newBalance
		account.UpdatedAt = now
		if err := accounts.Update(account); err != nil {
			return err
		}
		entry := &entity.ReceivableEntry{
			ID:                  uuid.New().String(),
			ReceivableAccountID: accountID,
			Reason:              in.Reason,
			Amount:              in.Amount,
			BalanceAfter:        newBalance,
			Date:                date,
			CreatedAt:           now,
			CreatedBy:           userID,
		}
		if err := entries.Create(entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAccount obtiene la cuenta por cobrar por ID.
func (uc *ReceivableUseCase) GetAccount(ctx context.Context, accountID string) (*dto.ReceivableAccountResponse, error) {
	account, err := uc.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(account), nil
}

// ListEntries lista el libro de la cuenta con paginación.
func (uc *ReceivableUseCase) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*dto.ReceivableEntryResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.entryRepo.ListByAccount(accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReceivableEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEntryResponse(e))
	}
	return out, nil
}

// Reconcile verifica el invariante del libro por cobrar: el saldo cacheado debe ser
// igual al BalanceAfter de la última entrada y a Σ(+LOAN) − Σ(AMORTIZATION).
// Una discrepancia se alerta por log y retorna ErrLedgerMismatch.
func (uc *ReceivableUseCase) Reconcile(ctx context.Context, accountID string) (*dto.ReceivableAccountResponse, error) {
	account, err := uc.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.entryRepo.SumByAccount(accountID)
	if err != nil {
		return nil, err
	}
	last, err := uc.entryRepo.GetLast(accountID)
	if err != nil {
		return nil, err
	}
	consistent := account.CurrentBalance.Equal(sum) &&
		(last == nil || last.BalanceAfter.Equal(account.CurrentBalance))
	if !consistent {
		uc.log.Error().
			Str("receivable_account_id", accountID).
			Str("cached_balance", account.CurrentBalance.String()).
			Str("ledger_sum", sum.String()).
			Msg("saldo por cobrar inconsistente con el libro de entradas")
		return toAccountResponse(account), domain.ErrLedgerMismatch
	}
	return toAccountResponse(account), nil
}

func toAccountResponse(a *entity.ReceivableAccount) *dto.ReceivableAccountResponse {
	return &dto.ReceivableAccountResponse{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		CurrentBalance: a.CurrentBalance,
	}
}

func toEntryResponse(e *entity.ReceivableEntry) *dto.ReceivableEntryResponse {
	return &dto.ReceivableEntryResponse{
		ID:           e.ID,
		Reason:       e.Reason,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Date:         e.Date,
	}
}
