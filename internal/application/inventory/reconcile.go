package inventory

import (
	"context"

	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
	"github.com/tu-usuario/negocio-api/pkg/logger"
)

// ReconcileUseCase verifica el invariante del libro: CurrentLevel debe ser igual a
// la suma con signo de todos los StockMovement de la cuenta. Una discrepancia no es
// recuperable para el caller (indica una violación de atomicidad) y se alerta por log.
type ReconcileUseCase struct {
	accounts  repository.InventoryAccountRepository
	movements repository.StockMovementRepository
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso (repos atados al pool; es solo lectura).
func NewReconcileUseCase(
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{accounts: accounts, movements: movements, log: log}
}

// Reconcile resuma el libro de la cuenta y lo compara contra el saldo cacheado.
// Retorna ErrLedgerMismatch (además de la respuesta con ambos valores) si difieren.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, accountID string) (*dto.ReconcileResponse, error) {
	account, err := uc.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movements.SumByAccount(accountID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReconcileResponse{
		InventoryAccountID: accountID,
		CachedLevel:        account.CurrentLevel,
		LedgerSum:          sum,
		Consistent:         account.CurrentLevel.Equal(sum),
	}
	if !resp.Consistent {
		uc.log.Error().
			Str("inventory_account_id", accountID).
			Str("cached_level", account.CurrentLevel.String()).
			Str("ledger_sum", sum.String()).
			Msg("saldo cacheado inconsistente con el libro de movimientos")
		return resp, domain.ErrLedgerMismatch
	}
	return resp, nil
}

// GetAccount devuelve la cuenta de inventario (para handlers de consulta).
func (uc *ReconcileUseCase) GetAccount(ctx context.Context, accountID string) (*dto.InventoryAccountResponse, error) {
	account, err := uc.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(account), nil
}

// ListMovements lista el libro de la cuenta con paginación.
func (uc *ReconcileUseCase) ListMovements(ctx context.Context, accountID string, limit, offset int) ([]*dto.StockMovementResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.movements.ListByAccount(accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, &dto.StockMovementResponse{
			ID:             m.ID,
			Kind:           m.Kind,
			Reason:         m.Reason,
			Quantity:       m.Quantity,
			ResultingLevel: m.ResultingLevel,
			Reference:      m.Reference,
			Date:           m.Date,
		})
	}
	return out, nil
}

func toAccountResponse(a *entity.InventoryAccount) *dto.InventoryAccountResponse {
	return &dto.InventoryAccountResponse{
		ID:           a.ID,
		ProductID:    a.ProductID,
		MinimumLevel: a.MinimumLevel,
		CurrentLevel: a.CurrentLevel,
		Active:       a.Active,
	}
}
