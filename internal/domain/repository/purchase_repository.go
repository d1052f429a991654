package repository

import "github.com/tu-usuario/negocio-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras y sus detalles.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateDetail(detail *entity.PurchaseDetail) error
	GetByID(id string) (*entity.Purchase, error)
	GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error)
	// Update actualiza total, active y updated_at de la cabecera.
	Update(purchase *entity.Purchase) error
	// DeleteDetails borra todas las líneas de la compra (solo lo usa RevisePurchase,
	// después de emitir los movimientos compensatorios).
	DeleteDetails(purchaseID string) error
	List(limit, offset int) ([]*entity.Purchase, error)
}

// PayableAccountRepository define el puerto para cuentas por pagar (sin libro de entradas).
type PayableAccountRepository interface {
	Create(account *entity.PayableAccount) error
	GetByPurchaseID(purchaseID string) (*entity.PayableAccount, error)
	Update(account *entity.PayableAccount) error
	// DeleteByPurchaseID elimina la cuenta completa (anulación de la compra).
	DeleteByPurchaseID(purchaseID string) error
}
