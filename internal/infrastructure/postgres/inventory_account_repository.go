package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ repository.InventoryAccountRepository = (*InventoryAccountRepo)(nil)

// InventoryAccountRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryAccountRepo struct {
	q Querier
}

// NewInventoryAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryAccountRepository(q Querier) *InventoryAccountRepo {
	return &InventoryAccountRepo{q: q}
}

const inventoryAccountCols = "id, product_id, minimum_level, current_level, active, created_at, updated_at"

// Create persiste una cuenta de inventario nueva (una por producto).
func (r *InventoryAccountRepo) Create(account *entity.InventoryAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_accounts (id, product_id, minimum_level, current_level, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.ProductID, account.MinimumLevel, account.CurrentLevel,
		account.Active, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID (nil si no existe).
func (r *InventoryAccountRepo) GetByID(id string) (*entity.InventoryAccount, error) {
	query := `SELECT ` + inventoryAccountCols + ` FROM inventory_accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByProductID obtiene la cuenta de un producto (nil si no existe).
func (r *InventoryAccountRepo) GetByProductID(productID string) (*entity.InventoryAccount, error) {
	query := `SELECT ` + inventoryAccountCols + ` FROM inventory_accounts WHERE product_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID))
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE) antes de mutar el saldo.
func (r *InventoryAccountRepo) GetForUpdate(id string) (*entity.InventoryAccount, error) {
	query := `SELECT ` + inventoryAccountCols + ` FROM inventory_accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdateByProductID igual que GetForUpdate pero por producto.
func (r *InventoryAccountRepo) GetForUpdateByProductID(productID string) (*entity.InventoryAccount, error) {
	query := `SELECT ` + inventoryAccountCols + ` FROM inventory_accounts WHERE product_id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID))
}

// Update escribe el saldo cacheado y metadatos de la cuenta.
func (r *InventoryAccountRepo) Update(account *entity.InventoryAccount) error {
	query := `
		UPDATE inventory_accounts
		SET minimum_level = $2, current_level = $3, active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.MinimumLevel, account.CurrentLevel, account.Active, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory account: %w", err)
	}
	return nil
}

// List lista cuentas con paginación.
func (r *InventoryAccountRepo) List(limit, offset int) ([]*entity.InventoryAccount, error) {
	query := `SELECT ` + inventoryAccountCols + ` FROM inventory_accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAccount
	for rows.Next() {
		var a entity.InventoryAccount
		if err := rows.Scan(&a.ID, &a.ProductID, &a.MinimumLevel, &a.CurrentLevel,
			&a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *InventoryAccountRepo) scanOne(row pgx.Row) (*entity.InventoryAccount, error) {
	var a entity.InventoryAccount
	err := row.Scan(&a.ID, &a.ProductID, &a.MinimumLevel, &a.CurrentLevel,
		&a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory account: %w", err)
	}
	return &a, nil
}
