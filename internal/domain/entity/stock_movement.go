package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementKindIn  = "IN"  // entrada
	MovementKindOut = "OUT" // salida
)

// Motivos estándar de movimiento (texto libre; estos son los que escribe el sistema).
const (
	ReasonPurchase          = "Compra"
	ReasonPurchaseEdited    = "Compra editada"
	ReasonPurchaseCancelled = "Compra anulada"
	ReasonSale              = "Venta"
	ReasonSaleCancelled     = "Venta anulada"
	ReasonManualAdjustment  = "Ajuste manual"
)

// StockMovement es una entrada del libro de inventario: registra un delta aplicado
// a una InventoryAccount. Inmutable una vez creado; las correcciones se hacen
// agregando una entrada opuesta, nunca editando o borrando historial.
// ResultingLevel guarda el nivel de la cuenta inmediatamente después de esta
// entrada, para auditoría.
type StockMovement struct {
	ID                 string
	InventoryAccountID string
	Kind               string          // IN | OUT
	Reason             string
	Quantity           decimal.Decimal // siempre positiva; el signo lo da Kind
	ResultingLevel     decimal.Decimal
	Reference          string // ID de compra/venta que originó el movimiento, si aplica
	Date               time.Time
	CreatedAt          time.Time
	CreatedBy          string // UserID
}

// SignedQuantity devuelve la cantidad con signo según Kind (IN positivo, OUT negativo).
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Kind == MovementKindOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
