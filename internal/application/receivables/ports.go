package receivables

import (
	"context"

	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de cuentas
// por cobrar. Escribir el nuevo saldo y agregar la entrada son una sola unidad:
// un fallo entre ambos no debe dejar el saldo cacheado inconsistente con el libro.
type TxRunner interface {
	RunReceivable(ctx context.Context, fn func(
		accounts repository.ReceivableAccountRepository,
		entries repository.ReceivableEntryRepository,
		keys repository.OperationKeyRepository,
	) error) error
}
