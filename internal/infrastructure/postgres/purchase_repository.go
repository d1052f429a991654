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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseCols = "id, supplier_id, number, date, total, active, created_at, updated_at"

// Create persiste la cabecera de una compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (id, supplier_id, number, date, total, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Number, purchase.Date,
		purchase.Total, purchase.Active, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de compra.
func (r *PurchaseRepo) CreateDetail(detail *entity.PurchaseDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_details (id, purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.PurchaseID, detail.ProductID, detail.Quantity, detail.UnitPrice, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase detail: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una compra (nil si no existe).
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseCols + ` FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.SupplierID, &p.Number, &p.Date, &p.Total, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetDetails lista las líneas de una compra.
func (r *PurchaseRepo) GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_details WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase details: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseDetail
	for rows.Next() {
		var d entity.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update actualiza total, active y updated_at de la cabecera.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `UPDATE purchases SET number = $2, date = $3, total = $4, active = $5, updated_at = $6 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Number, purchase.Date, purchase.Total, purchase.Active, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// DeleteDetails borra todas las líneas de la compra. Solo lo usa la revisión,
// después de emitir los movimientos compensatorios en la misma transacción.
func (r *PurchaseRepo) DeleteDetails(purchaseID string) error {
	query := `DELETE FROM purchase_details WHERE purchase_id = $1`
	_, err := r.q.Exec(context.Background(), query, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase details: %w", err)
	}
	return nil
}

// List lista compras, más recientes primero.
func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseCols + ` FROM purchases ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Number, &p.Date, &p.Total,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
