package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
)

// InventoryAccountRepository define el puerto de persistencia para cuentas de inventario.
// Solo los orquestadores deben llamar Update, y siempre junto con el StockMovement
// correspondiente dentro de la misma transacción.
type InventoryAccountRepository interface {
	Create(account *entity.InventoryAccount) error
	GetByID(id string) (*entity.InventoryAccount, error)
	GetByProductID(productID string) (*entity.InventoryAccount, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) antes de mutar el saldo.
	GetForUpdate(id string) (*entity.InventoryAccount, error)
	GetForUpdateByProductID(productID string) (*entity.InventoryAccount, error)
	Update(account *entity.InventoryAccount) error
	List(limit, offset int) ([]*entity.InventoryAccount, error)
}

// StockMovementRepository define el puerto para el libro de movimientos de stock (append-only).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByAccount(accountID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumByAccount devuelve la suma con signo de todos los movimientos de la cuenta
	// (IN suma, OUT resta). Base de la función de reconciliación.
	SumByAccount(accountID string) (decimal.Decimal, error)
}
