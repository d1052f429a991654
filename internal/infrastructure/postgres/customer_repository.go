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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerCols = "id, name, search_name, tax_id, email, phone, created_at, updated_at"

// Create persiste un cliente nuevo. NIT/cédula duplicado devuelve ErrDuplicate.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, name, search_name, tax_id, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.SearchName, customer.TaxID,
		customer.Email, customer.Phone, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID (nil si no existe).
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerCols + ` FROM customers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByTaxID obtiene un cliente por NIT/cédula (nil si no existe).
func (r *CustomerRepo) GetByTaxID(taxID string) (*entity.Customer, error) {
	query := `SELECT ` + customerCols + ` FROM customers WHERE tax_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, taxID))
}

// SearchByName busca por prefijo sobre el nombre normalizado (columna search_name).
func (r *CustomerRepo) SearchByName(searchName string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerCols + ` FROM customers
		WHERE search_name LIKE $1 || '%' ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, searchName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// List lista clientes con paginación.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerCols + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, search_name = $3, tax_id = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.SearchName, customer.TaxID,
		customer.Email, customer.Phone, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) scanOne(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, &c.SearchName, &c.TaxID, &c.Email, &c.Phone,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) scanList(rows pgx.Rows) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.SearchName, &c.TaxID, &c.Email, &c.Phone,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
