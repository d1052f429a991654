package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es la cabecera de una compra a proveedor. Total es denormalizado: se
// recalcula desde los detalles cada vez que cambian (los detalles son la fuente de
// verdad). Las compras nunca se borran; anular pone Active en false.
type Purchase struct {
	ID         string
	SupplierID string
	Number     string // número de factura del proveedor (opcional)
	Date       time.Time
	Total      decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseDetail es una línea de compra.
type PurchaseDetail struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal // Quantity * UnitPrice
}
