package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	InventoryAccountID string          `json:"inventory_account_id"`
	Kind               string          `json:"kind"` // IN | OUT
	Quantity           decimal.Decimal `json:"quantity"`
	Reason             string          `json:"reason,omitempty"`
	Date               *time.Time      `json:"date,omitempty"`
	IdempotencyKey     string          `json:"idempotency_key,omitempty"`
}

// MovementResponse respuesta de un movimiento registrado.
type MovementResponse struct {
	MovementID     string          `json:"movement_id"`
	ResultingLevel decimal.Decimal `json:"resulting_level"`
}

// InventoryAccountResponse cuenta de inventario en respuestas.
type InventoryAccountResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	MinimumLevel decimal.Decimal `json:"minimum_level"`
	CurrentLevel decimal.Decimal `json:"current_level"`
	Active       bool            `json:"active"`
}

// StockMovementResponse entrada del libro de inventario en respuestas.
type StockMovementResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Reason         string          `json:"reason"`
	Quantity       decimal.Decimal `json:"quantity"`
	ResultingLevel decimal.Decimal `json:"resulting_level"`
	Reference      string          `json:"reference,omitempty"`
	Date           time.Time       `json:"date"`
}

// ReconcileResponse resultado de la reconciliación libro vs saldo cacheado.
type ReconcileResponse struct {
	InventoryAccountID string          `json:"inventory_account_id"`
	CachedLevel        decimal.Decimal `json:"cached_level"`
	LedgerSum          decimal.Decimal `json:"ledger_sum"`
	Consistent         bool            `json:"consistent"`
}
