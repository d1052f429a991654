package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/negocio-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// El signo de cada entrada del libro sale de Kind/Reason, nunca del campo de
// cantidad (que es siempre positivo). Las reconciliaciones suman cantidades
// con signo: si alguien cambia esta convención, todo saldo cacheado dejaría
// de cuadrar contra su libro.
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMovementSignedQuantity(t *testing.T) {
	in := &entity.StockMovement{Kind: entity.MovementKindIn, Quantity: decimal.NewFromInt(7)}
	out := &entity.StockMovement{Kind: entity.MovementKindOut, Quantity: decimal.NewFromInt(7)}

	assert.True(t, in.SignedQuantity().Equal(decimal.NewFromInt(7)))
	assert.True(t, out.SignedQuantity().Equal(decimal.NewFromInt(-7)))
	assert.True(t, in.SignedQuantity().Add(out.SignedQuantity()).IsZero(),
		"una entrada y una salida iguales se anulan en el libro")
}

func TestReceivableEntrySignedAmount(t *testing.T) {
	loan := &entity.ReceivableEntry{Reason: entity.EntryReasonLoan, Amount: decimal.NewFromInt(100)}
	amort := &entity.ReceivableEntry{Reason: entity.EntryReasonAmortization, Amount: decimal.NewFromInt(40)}

	assert.True(t, loan.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, amort.SignedAmount().Equal(decimal.NewFromInt(-40)))
}
