package inventory

import (
	"context"

	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Es la unidad de trabajo explícita del motor: actualizar el saldo
// cacheado y agregar la entrada al libro ocurren juntos o no ocurren.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		accounts repository.InventoryAccountRepository,
		movements repository.StockMovementRepository,
		keys repository.OperationKeyRepository,
	) error) error
}
