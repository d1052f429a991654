package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
	"github.com/tu-usuario/negocio-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos (append-only) sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. No hay Update ni Delete: el libro solo crece.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, inventory_account_id, kind, reason, quantity, resulting_level, reference, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.InventoryAccountID, movement.Kind, movement.Reason,
		movement.Quantity, movement.ResultingLevel, movement.Reference,
		movement.Date, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByAccount lista los movimientos de una cuenta, más recientes primero.
func (r *StockMovementRepo) ListByAccount(accountID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, inventory_account_id, kind, reason, quantity, resulting_level, reference, date, created_at, created_by
		FROM stock_movements WHERE inventory_account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.InventoryAccountID, &m.Kind, &m.Reason,
			&m.Quantity, &m.ResultingLevel, &m.Reference, &m.Date, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByAccount devuelve la suma con signo de todos los movimientos de la cuenta
// (IN suma, OUT resta). COALESCE para cuentas sin movimientos.
func (r *StockMovementRepo) SumByAccount(accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE inventory_account_id = $1`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}
