package repository

import "github.com/tu-usuario/negocio-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
// El stock no se toca aquí: vive en la InventoryAccount del producto.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
