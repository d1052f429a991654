package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de entrada en cuentas por cobrar.
const (
	EntryReasonLoan         = "LOAN"         // préstamo: aumenta lo que el cliente debe
	EntryReasonAmortization = "AMORTIZATION" // abono: disminuye lo que el cliente debe
)

// ReceivableAccount es la cuenta por cobrar de un cliente (máximo una por cliente).
// CurrentBalance es cacheado: debe coincidir con el BalanceAfter de la entrada más
// reciente del libro. Se crea al primer uso y nunca se borra.
type ReceivableAccount struct {
	ID             string
	CustomerID     string
	CurrentBalance decimal.Decimal // lo que el cliente debe al negocio
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReceivableEntry es una entrada del libro de cuentas por cobrar. Inmutable.
// BalanceAfter guarda el saldo de la cuenta inmediatamente después de esta entrada
// (análogo a StockMovement.ResultingLevel).
type ReceivableEntry struct {
	ID                  string
	ReceivableAccountID string
	Reason              string          // LOAN | AMORTIZATION
	Amount              decimal.Decimal // siempre positivo; el signo lo da Reason
	BalanceAfter        decimal.Decimal
	Date                time.Time
	CreatedAt           time.Time
	CreatedBy           string // UserID
}

// SignedAmount devuelve el monto con signo según Reason (LOAN positivo, AMORTIZATION negativo).
func (e *ReceivableEntry) SignedAmount() decimal.Decimal {
	if e.Reason == EntryReasonAmortization {
		return e.Amount.Neg()
	}
	return e.Amount
}
