package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es la cabecera de una venta. Total es denormalizado desde los detalles,
// igual que en Purchase. Anular pone Active en false y reintegra el stock con
// movimientos compensatorios.
type Sale struct {
	ID         string
	CustomerID string // opcional: vacío para venta de mostrador
	Date       time.Time
	Total      decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleDetail es una línea de venta.
type SaleDetail struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
