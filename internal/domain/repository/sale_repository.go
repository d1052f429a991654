package repository

import "github.com/tu-usuario/negocio-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus detalles.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateDetail(detail *entity.SaleDetail) error
	GetByID(id string) (*entity.Sale, error)
	GetDetails(saleID string) ([]*entity.SaleDetail, error)
	Update(sale *entity.Sale) error
	List(limit, offset int) ([]*entity.Sale, error)
}
