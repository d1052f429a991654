package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenReceivableRequest body para POST /api/receivables.
type OpenReceivableRequest struct {
	CustomerID     string          `json:"customer_id"`
	Reason         string          `json:"reason"` // normalmente LOAN
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// RegisterEntryRequest body para POST /api/receivables/:id/entries.
type RegisterEntryRequest struct {
	Reason         string          `json:"reason"` // LOAN | AMORTIZATION
	Amount         decimal.Decimal `json:"amount"`
	Date           *time.Time      `json:"date,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ReceivableAccountResponse cuenta por cobrar en respuestas.
type ReceivableAccountResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// ReceivableEntryResponse entrada del libro por cobrar en respuestas.
type ReceivableEntryResponse struct {
	ID           string          `json:"id"`
	Reason       string          `json:"reason"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Date         time.Time       `json:"date"`
}
