package repository

import "github.com/tu-usuario/negocio-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByTaxID(taxID string) (*entity.Supplier, error)
	// SearchByName busca por nombre normalizado (ver pkg/textutil).
	SearchByName(searchName string, limit, offset int) ([]*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
}
