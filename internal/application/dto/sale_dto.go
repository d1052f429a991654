package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta en requests.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	CustomerID     string            `json:"customer_id,omitempty"` // vacío = venta de mostrador
	Date           *time.Time        `json:"date,omitempty"`
	Lines          []SaleLineRequest `json:"lines"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

// CancelSaleRequest body para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con detalle.
type SaleResponse struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Date       time.Time          `json:"date"`
	Total      decimal.Decimal    `json:"total"`
	Active     bool               `json:"active"`
	Lines      []SaleLineResponse `json:"lines,omitempty"`
}
