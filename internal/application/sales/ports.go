package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de ventas e inventario.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		sales repository.SaleRepository,
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error) error
}

// StockApplier integra ventas con el motor de inventario (misma semántica que en compras).
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
