package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra en requests.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SupplierRefRequest referencia a proveedor: por ID o por atributos (resolve-or-create por NIT).
type SupplierRefRequest struct {
	SupplierID string `json:"supplier_id,omitempty"`
	Name       string `json:"name,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// RegisterPurchaseRequest body para POST /api/purchases.
type RegisterPurchaseRequest struct {
	Supplier       SupplierRefRequest    `json:"supplier"`
	Number         string                `json:"number,omitempty"`
	Date           *time.Time            `json:"date,omitempty"`
	Lines          []PurchaseLineRequest `json:"lines"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
}

// RevisePurchaseRequest body para PUT /api/purchases/:id.
type RevisePurchaseRequest struct {
	Number         string                `json:"number,omitempty"`
	Date           *time.Time            `json:"date,omitempty"`
	Lines          []PurchaseLineRequest `json:"lines"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
}

// CancelPurchaseRequest body para POST /api/purchases/:id/cancel.
type CancelPurchaseRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// PurchaseLineResponse línea de compra en respuestas.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con detalle y cuenta por pagar.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Number     string                 `json:"number,omitempty"`
	Date       time.Time              `json:"date"`
	Total      decimal.Decimal        `json:"total"`
	Active     bool                   `json:"active"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
	Payable    *PayableResponse       `json:"payable,omitempty"`
}

// PayableResponse cuenta por pagar de la compra.
type PayableResponse struct {
	ID        string          `json:"id"`
	AmountDue decimal.Decimal `json:"amount_due"`
	Settled   bool            `json:"settled"`
}
