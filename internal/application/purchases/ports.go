package purchases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos de
// compras, cuentas por pagar e inventario. Cabecera, detalles, movimientos y cuenta
// por pagar se escriben como una sola unidad atómica (todas las filas o ninguna).
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchases repository.PurchaseRepository,
		payables repository.PayableAccountRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error) error
}

// StockApplier integra compras con el motor de inventario: aplica un movimiento
// usando los repositorios del caller (misma transacción). corrective=true omite la
// validación de stock (movimientos compensatorios de anulación/edición).
type StockApplier interface {
	ApplyInTx(
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		accountID, kind string,
		quantity decimal.Decimal,
		reason, reference, userID string,
		now time.Time,
		corrective bool,
	) (decimal.Decimal, error)
}
