package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/negocio-api/internal/domain/entity"
)

// ReceivableAccountRepository define el puerto para cuentas por cobrar.
type ReceivableAccountRepository interface {
	Create(account *entity.ReceivableAccount) error
	GetByID(id string) (*entity.ReceivableAccount, error)
	GetByCustomerID(customerID string) (*entity.ReceivableAccount, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) antes de mutar el saldo.
	GetForUpdate(id string) (*entity.ReceivableAccount, error)
	Update(account *entity.ReceivableAccount) error
}

// ReceivableEntryRepository define el puerto para el libro de entradas por cobrar (append-only).
type ReceivableEntryRepository interface {
	Create(entry *entity.ReceivableEntry) error
	ListByAccount(accountID string, limit, offset int) ([]*entity.ReceivableEntry, error)
	// GetLast devuelve la entrada más reciente de la cuenta (nil si no hay).
	GetLast(accountID string) (*entity.ReceivableEntry, error)
	// SumByAccount devuelve Σ(+LOAN) − Σ(AMORTIZATION).
	SumByAccount(accountID string) (decimal.Decimal, error)
}
