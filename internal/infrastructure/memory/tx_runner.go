package memory

import (
	"context"

	"github.com/tu-usuario/negocio-api/internal/application/inventory"
	"github.com/tu-usuario/negocio-api/internal/application/purchases"
	"github.com/tu-usuario/negocio-api/internal/application/receivables"
	"github.com/tu-usuario/negocio-api/internal/application/sales"
	"github.com/tu-usuario/negocio-api/internal/application/usecase"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ receivables.TxRunner = (*TxRunner)(nil)
var _ usecase.CatalogTxRunner = (*TxRunner)(nil)

// TxRunner versión en memoria de la unidad de trabajo: snapshot antes del
// callback y restauración total si falla. Mismo contrato que el runner de
// PostgreSQL, sin base de datos.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(fn func() error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	if err := fn(); err != nil {
		r.store.data = snap
		return err
	}
	return nil
}

// Run transacción del motor de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&InventoryAccountRepo{store: r.store},
			&StockMovementRepo{store: r.store},
			&OperationKeyRepo{store: r.store},
		)
	})
}

// RunPurchase transacción de compras.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchases repository.PurchaseRepository,
	payables repository.PayableAccountRepository,
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&PurchaseRepo{store: r.store},
			&PayableAccountRepo{store: r.store},
			&InventoryAccountRepo{store: r.store},
			&StockMovementRepo{store: r.store},
			&OperationKeyRepo{store: r.store},
		)
	})
}

// RunSale transacción de ventas.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	sales repository.SaleRepository,
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&SaleRepo{store: r.store},
			&InventoryAccountRepo{store: r.store},
			&StockMovementRepo{store: r.store},
			&OperationKeyRepo{store: r.store},
		)
	})
}

// RunReceivable transacción de cuentas por cobrar.
func (r *TxRunner) RunReceivable(ctx context.Context, fn func(
	accounts repository.ReceivableAccountRepository,
	entries repository.ReceivableEntryRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&ReceivableAccountRepo{store: r.store},
			&ReceivableEntryRepo{store: r.store},
			&OperationKeyRepo{store: r.store},
		)
	})
}

// RunCatalog transacción de catálogo.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	accounts repository.InventoryAccountRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&ProductRepo{store: r.store},
			&InventoryAccountRepo{store: r.store},
		)
	})
}
