package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada método Run*
// abre una tx, construye repos atados a ella y hace Commit si fn retorna nil,
// Rollback en cualquier otro caso.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción del motor de inventario: saldo cacheado y libro de movimientos
// se escriben juntos o no se escriben.
func (r *TxRunner) Run(ctx context.Context, fn func(
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewInventoryAccountRepository(tx),
			NewStockMovementRepository(tx),
			NewOperationKeyRepository(tx),
		)
	})
}

// RunPurchase transacción de compras: cabecera, detalles, movimientos y cuenta por
// pagar como una sola unidad.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchases repository.PurchaseRepository,
	payables repository.PayableAccountRepository,
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewPurchaseRepository(tx),
			NewPayableAccountRepository(tx),
			NewInventoryAccountRepository(tx),
			NewStockMovementRepository(tx),
			NewOperationKeyRepository(tx),
		)
	})
}

// RunSale transacción de ventas: cabecera, detalles y movimientos de salida juntos.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	sales repository.SaleRepository,
	accounts repository.InventoryAccountRepository,
	movements repository.StockMovementRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewSaleRepository(tx),
			NewInventoryAccountRepository(tx),
			NewStockMovementRepository(tx),
			NewOperationKeyRepository(tx),
		)
	})
}

// RunReceivable transacción de cuentas por cobrar: saldo y entrada del libro juntos.
func (r *TxRunner) RunReceivable(ctx context.Context, fn func(
	accounts repository.ReceivableAccountRepository,
	entries repository.ReceivableEntryRepository,
	keys repository.OperationKeyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewReceivableAccountRepository(tx),
			NewReceivableEntryRepository(tx),
			NewOperationKeyRepository(tx),
		)
	})
}

// RunCatalog transacción de catálogo: producto y su cuenta de inventario nacen juntos.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	accounts repository.InventoryAccountRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewProductRepository(tx),
			NewInventoryAccountRepository(tx),
		)
	})
}
