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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleCols = "id, customer_id, date, total, active, created_at, updated_at"

// Create persiste la cabecera de una venta. CustomerID vacío se guarda como NULL
// (venta de mostrador).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	customerID := (*string)(nil)
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}
	query := `
		INSERT INTO sales (id, customer_id, date, total, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, customerID, sale.Date, sale.Total, sale.Active, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de venta.
func (r *SaleRepo) CreateDetail(detail *entity.SaleDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_details (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.SaleID, detail.ProductID, detail.Quantity, detail.UnitPrice, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale detail: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta (nil si no existe).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleCols + ` FROM sales WHERE id = $1`
	var s entity.Sale
	var customerID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &customerID, &s.Date, &s.Total, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}

// GetDetails lista las líneas de una venta.
func (r *SaleRepo) GetDetails(saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_details WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale details: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update actualiza total, active y updated_at de la cabecera.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `UPDATE sales SET date = $2, total = $3, active = $4, updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Date, sale.Total, sale.Active, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas, más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleCols + ` FROM sales ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var customerID *string
		if err := rows.Scan(&s.ID, &customerID, &s.Date, &s.Total, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if customerID != nil {
			s.CustomerID = *customerID
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
