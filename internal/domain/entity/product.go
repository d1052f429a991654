package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock NO vive aquí: se maneja en
// la InventoryAccount del producto, que se crea junto con él.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
