package repository

import "github.com/tu-usuario/negocio-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByTaxID(taxID string) (*entity.Customer, error)
	// SearchByName busca por nombre normalizado (ver pkg/textutil).
	SearchByName(searchName string, limit, offset int) ([]*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
