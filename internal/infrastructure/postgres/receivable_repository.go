package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ repository.ReceivableAccountRepository = (*ReceivableAccountRepo)(nil)
var _ repository.ReceivableEntryRepository = (*ReceivableEntryRepo)(nil)

// ReceivableAccountRepo implementación sobre PostgreSQL (usable con pool o tx).
type ReceivableAccountRepo struct {
	q Querier
}

// NewReceivableAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivableAccountRepository(q Querier) *ReceivableAccountRepo {
	return &ReceivableAccountRepo{q: q}
}

const receivableAccountCols = "id, customer_id, current_balance, created_at, updated_at"

// Create persiste una cuenta por cobrar nueva. El UNIQUE sobre customer_id garantiza
// máximo una cuenta por cliente también bajo concurrencia.
func (r *ReceivableAccountRepo) Create(account *entity.ReceivableAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receivable_accounts (id, customer_id, current_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.CustomerID, account.CurrentBalance, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAccount
		}
		return fmt.Errorf("insert receivable account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID (nil si no existe).
func (r *ReceivableAccountRepo) GetByID(id string) (*entity.ReceivableAccount, error) {
	query := `SELECT ` + receivableAccountCols + ` FROM receivable_accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCustomerID obtiene la cuenta de un cliente (nil si no existe).
func (r *ReceivableAccountRepo) GetByCustomerID(customerID string) (*entity.ReceivableAccount, error) {
	query := `SELECT ` + receivableAccountCols + ` FROM receivable_accounts WHERE customer_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, customerID))
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE) antes de mutar el saldo.
func (r *ReceivableAccountRepo) GetForUpdate(id string) (*entity.ReceivableAccount, error) {
	query := `SELECT ` + receivableAccountCols + ` FROM receivable_accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update escribe el saldo cacheado de la cuenta.
func (r *ReceivableAccountRepo) Update(account *entity.ReceivableAccount) error {
	query := `UPDATE receivable_accounts SET current_balance = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, account.ID, account.CurrentBalance, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update receivable account: %w", err)
	}
	return nil
}

func (r *ReceivableAccountRepo) scanOne(row pgx.Row) (*entity.ReceivableAccount, error) {
	var a entity.ReceivableAccount
	err := row.Scan(&a.ID, &a.CustomerID, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receivable account: %w", err)
	}
	return &a, nil
}

// ReceivableEntryRepo implementación del libro de entradas por cobrar (append-only).
type ReceivableEntryRepo struct {
	q Querier
}

// NewReceivableEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivableEntryRepository(q Querier) *ReceivableEntryRepo {
	return &ReceivableEntryRepo{q: q}
}

const receivableEntryCols = "id, receivable_account_id, reason, amount, balance_after, date, created_at, created_by"

// Create persiste una entrada. Inmutable: no hay Update ni Delete.
func (r *ReceivableEntryRepo) Create(entry *entity.ReceivableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receivable_entries (id, receivable_account_id, reason, amount, balance_after, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ReceivableAccountID, entry.Reason, entry.Amount,
		entry.BalanceAfter, entry.Date, entry.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create receivable entry: %w", err)
	}
	return nil
}

// ListByAccount lista entradas de la cuenta, más recientes primero.
func (r *ReceivableEntryRepo) ListByAccount(accountID string, limit, offset int) ([]*entity.ReceivableEntry, error) {
	query := `SELECT ` + receivableEntryCols + ` FROM receivable_entries
		WHERE receivable_account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receivable entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceivableEntry
	for rows.Next() {
		e, err := scanReceivableEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// GetLast devuelve la entrada más reciente de la cuenta (nil si no hay).
func (r *ReceivableEntryRepo) GetLast(accountID string) (*entity.ReceivableEntry, error) {
	query := `SELECT ` + receivableEntryCols + ` FROM receivable_entries
		WHERE receivable_account_id = $1 ORDER BY created_at DESC LIMIT 1`
	e, err := scanReceivableEntry(r.q.QueryRow(context.Background(), query, accountID))
	if err != nil {
		return nil, err
	}
	return e, nil
}

// SumByAccount devuelve Σ(LOAN) − Σ(AMORTIZATION). Base de la reconciliación.
func (r *ReceivableEntryRepo) SumByAccount(accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN reason = 'AMORTIZATION' THEN -amount ELSE amount END), 0)
		FROM receivable_entries WHERE receivable_account_id = $1`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum receivable entries: %w", err)
	}
	return sum, nil
}

func scanReceivableEntry(row pgx.Row) (*entity.ReceivableEntry, error) {
	var e entity.ReceivableEntry
	var createdBy *string
	err := row.Scan(&e.ID, &e.ReceivableAccountID, &e.Reason, &e.Amount,
		&e.BalanceAfter, &e.Date, &e.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan receivable entry: %w", err)
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}
