package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los mapean a códigos de estado.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrMissingInventoryRecord: el producto no tiene cuenta de inventario asociada.
	// Ninguna compra o venta puede tocar stock de un producto sin cuenta.
	ErrMissingInventoryRecord = errors.New("producto sin cuenta de inventario")

	// ErrExcessiveAmortization: el abono supera el saldo actual de la cuenta por cobrar.
	ErrExcessiveAmortization = errors.New("el abono supera el saldo pendiente")

	// ErrDuplicateAccount: ya existe una cuenta por cobrar para ese cliente (máximo una).
	ErrDuplicateAccount = errors.New("el cliente ya tiene una cuenta por cobrar")

	// ErrAlreadyCancelled: la compra o venta ya fue anulada; re-anular duplicaría
	// los movimientos compensatorios.
	ErrAlreadyCancelled = errors.New("la operación ya fue anulada")

	// ErrOverstock: guardia de sobre-stock en revisión de compras (ver config
	// PURCHASES_OVERSTOCK_GUARD): el nivel resultante excedería el límite de la cuenta.
	ErrOverstock = errors.New("el nivel resultante excede el límite de la cuenta")

	// ErrDuplicateOperation: la clave de idempotencia ya fue usada; la operación no se re-aplica.
	ErrDuplicateOperation = errors.New("operación ya aplicada (clave de idempotencia repetida)")

	// ErrLedgerMismatch: el saldo cacheado no coincide con la suma del libro de movimientos.
	// No es recuperable por el caller: indica una violación de atomicidad y debe alertarse.
	ErrLedgerMismatch = errors.New("saldo cacheado inconsistente con el libro de movimientos")
)
