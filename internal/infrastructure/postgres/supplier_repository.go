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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierCols = "id, name, search_name, tax_id, email, phone, created_at, updated_at"

// Create persiste un proveedor nuevo. NIT duplicado devuelve ErrDuplicate.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	query := `
		INSERT INTO suppliers (id, name, search_name, tax_id, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.SearchName, supplier.TaxID,
		supplier.Email, supplier.Phone, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID (nil si no existe).
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierCols + ` FROM suppliers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByTaxID obtiene un proveedor por NIT (nil si no existe).
func (r *SupplierRepo) GetByTaxID(taxID string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierCols + ` FROM suppliers WHERE tax_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, taxID))
}

// SearchByName busca por prefijo sobre el nombre normalizado (columna search_name).
func (r *SupplierRepo) SearchByName(searchName string, limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierCols + ` FROM suppliers
		WHERE search_name LIKE $1 || '%' ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, searchName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search suppliers: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// List lista proveedores con paginación.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierCols + ` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// Update actualiza los datos del proveedor.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, search_name = $3, tax_id = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.SearchName, supplier.TaxID,
		supplier.Email, supplier.Phone, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) scanOne(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.SearchName, &s.TaxID, &s.Email, &s.Phone,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) scanList(rows pgx.Rows) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.SearchName, &s.TaxID, &s.Email, &s.Phone,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
