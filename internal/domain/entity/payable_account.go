package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayableAccount es la cuenta por pagar de una compra (1:1 con Purchase).
// A diferencia de las cuentas por cobrar no lleva libro de entradas: se crea con
// AmountDue = total de la compra y se elimina completa si la compra se anula.
type PayableAccount struct {
	ID         string
	PurchaseID string
	AmountDue  decimal.Decimal
	Settled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
