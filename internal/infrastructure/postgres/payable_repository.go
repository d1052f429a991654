package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ repository.PayableAccountRepository = (*PayableAccountRepo)(nil)

// PayableAccountRepo implementación sobre PostgreSQL (usable con pool o tx).
type PayableAccountRepo struct {
	q Querier
}

// NewPayableAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPayableAccountRepository(q Querier) *PayableAccountRepo {
	return &PayableAccountRepo{q: q}
}

// Create persiste la cuenta por pagar de una compra.
func (r *PayableAccountRepo) Create(account *entity.PayableAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payable_accounts (id, purchase_id, amount_due, settled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.PurchaseID, account.AmountDue, account.Settled,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payable account: %w", err)
	}
	return nil
}

// GetByPurchaseID obtiene la cuenta por pagar de una compra (nil si no existe).
func (r *PayableAccountRepo) GetByPurchaseID(purchaseID string) (*entity.PayableAccount, error) {
	query := `
		SELECT id, purchase_id, amount_due, settled, created_at, updated_at
		FROM payable_accounts WHERE purchase_id = $1`
	var a entity.PayableAccount
	err := r.q.QueryRow(context.Background(), query, purchaseID).Scan(
		&a.ID, &a.PurchaseID, &a.AmountDue, &a.Settled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payable account: %w", err)
	}
	return &a, nil
}

// Update escribe monto adeudado y estado de pago.
func (r *PayableAccountRepo) Update(account *entity.PayableAccount) error {
	query := `UPDATE payable_accounts SET amount_due = $2, settled = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.AmountDue, account.Settled, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payable account: %w", err)
	}
	return nil
}

// DeleteByPurchaseID elimina la cuenta completa (anulación de la compra).
func (r *PayableAccountRepo) DeleteByPurchaseID(purchaseID string) error {
	query := `DELETE FROM payable_accounts WHERE purchase_id = $1`
	_, err := r.q.Exec(context.Background(), query, purchaseID)
	if err != nil {
		return fmt.Errorf("delete payable account: %w", err)
	}
	return nil
}
