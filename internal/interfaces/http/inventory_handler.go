package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos de stock, consulta de cuentas y reconciliación.
type InventoryHandler struct {
	register  *inventory.RegisterMovementUseCase
	reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(register *inventory.RegisterMovementUseCase, reconcile *inventory.ReconcileUseCase) *InventoryHandler {
	return &InventoryHandler{register: register, reconcile: reconcile}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	out, err := h.register.RegisterMovement(c.Context(), inventory.MovementInput{
		InventoryAccountID: in.InventoryAccountID,
		Kind:               in.Kind,
		Quantity:           in.Quantity,
		Reason:             in.Reason,
		Date:               date,
		UserID:             GetUserID(c),
		IdempotencyKey:     in.IdempotencyKey,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetAccount godoc
// @Summary      Obtener cuenta de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.InventoryAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/accounts/{id} [get]
func (h *InventoryHandler) GetAccount(c *fiber.Ctx) error {
	out, err := h.reconcile.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de una cuenta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la cuenta"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.StockMovementResponse
// @Router       /api/inventory/accounts/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.reconcile.ListMovements(c.Context(), c.Params("id"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliar saldo cacheado contra el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/accounts/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.reconcile.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
