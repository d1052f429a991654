package inventory

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

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (bloqueo de fila con SELECT FOR UPDATE, Commit/Rollback vía TxRunner).
// Es el único punto donde se escribe InventoryAccount.CurrentLevel.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log}
}

// MovementInput entrada para registrar un movimiento discrecional.
type MovementInput struct {
	InventoryAccountID string
	Kind               string // IN | OUT
	Quantity           decimal.Decimal
	Reason             string
	Date               time.Time
	UserID             string
	IdempotencyKey     string
}

// RegisterMovement valida la entrada, inicia la transacción, bloquea la cuenta,
// aplica el delta y agrega la entrada al libro. Una salida que exceda el nivel
// actual se rechaza con ErrInsufficientStock sin tocar nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	if input.InventoryAccountID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Kind != entity.MovementKindIn && input.Kind != entity.MovementKindOut {
		return nil, domain.ErrInvalidInput
	}
	reason := input.Reason
	if reason == "" {
		reason = entity.ReasonManualAdjustment
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var resp *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error {
		if input.IdempotencyKey != "" {
			if err := keys.Claim(input.IdempotencyKey, "register_movement"); err != nil {
				return err
			}
		}
		account, err := accounts.GetForUpdate(input.InventoryAccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		if input.Kind == entity.MovementKindOut && account.CurrentLevel.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		level, movID, err := apply(accounts, movements, account, input.Kind, input.Quantity,
			reason, "", input.UserID, date)
		if err != nil {
			return err
		}
		resp = &dto.MovementResponse{MovementID: movID, ResultingLevel: level}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma transacción).
// Lo usan los orquestadores de compras y ventas para que sus ajustes de stock queden
// en la misma unidad atómica que cabecera, detalles y cuenta por pagar.
// corrective=true omite la validación de stock: los movimientos compensatorios
// (anulación/edición de compra) revierten historia, no disponen de stock.
func (uc *RegisterMovementUseCase) ApplyInTx(
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	accountID, kind string,
	quantity decimal.Decimal,
	reason, reference, userID string,
	now time.Time,
	corrective bool,
) (decimal.Decimal, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	account, err := accounts.GetForUpdate(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, domain.ErrMissingInventoryRecord
	}
	if kind == entity.MovementKindOut && !corrective && account.CurrentLevel.LessThan(quantity) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	level, _, err := apply(accounts, movements, account, kind, quantity, reason, reference, userID, now)
	if err != nil {
		return decimal.Zero, err
	}
	if level.IsNegative() {
		uc.log.Warn().
			Str("inventory_account_id", accountID).
			Str("reason", reason).
			Str("resulting_level", level.String()).
			Msg("movimiento compensatorio dejó el nivel en negativo")
	}
	return level, nil
}

// apply muta el saldo cacheado y agrega la entrada al libro. La cuenta ya debe venir
// bloqueada (GetForUpdate) y toda validación hecha.
func apply(
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	account *entity.InventoryAccount,
	kind string,
	quantity decimal.Decimal,
	reason, reference, userID string,
	now time.Time,
) (decimal.Decimal, string, error) {
	newLevel := account.CurrentLevel.Add(quantity)
	if kind == entity.MovementKindOut {
		newLevel = account.CurrentLevel.Sub(quantity)
	}
	account.CurrentLevel = newLevel
	account.UpdatedAt = now
	if err := accounts.Update(account); err != nil {
		return decimal.Zero, "", err
	}
	mov := &entity.StockMovement{
		ID:                 uuid.New().String(),
		InventoryAccountID: account.ID,
		Kind:               kind,
		Reason:             reason,
		Quantity:           quantity,
		ResultingLevel:     newLevel,
		Reference:          reference,
		Date:               now,
		CreatedAt:          now,
		CreatedBy:          userID,
	}
	if err := movements.Create(mov); err != nil {
		return decimal.Zero, "", err
	}
	return newLevel, mov.ID, nil
}
