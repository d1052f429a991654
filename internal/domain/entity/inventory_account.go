package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryAccount es la cuenta de inventario de un producto (1:1 con Product).
// CurrentLevel es un valor cacheado: debe ser siempre igual a la suma con signo de
// sus StockMovement (IN suma, OUT resta). Solo los orquestadores lo escriben, y
// siempre junto con el movimiento correspondiente dentro de una transacción.
// Se crea una sola vez cuando el producto entra al catálogo; nunca se borra
// (Active es un flag de deshabilitación, independiente del saldo).
type InventoryAccount struct {
	ID           string
	ProductID    string
	MinimumLevel decimal.Decimal // umbral informativo de reorden
	CurrentLevel decimal.Decimal // cacheado desde el libro de movimientos
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
