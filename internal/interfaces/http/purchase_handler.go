package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/purchases"
)

// PurchaseHandler maneja registro, revisión, anulación y consulta de compras.
type PurchaseHandler struct {
	uc *purchases.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar compra (stock + cuenta por pagar en una transacción)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterPurchase(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Revise godoc
// @Summary      Revisar compra (reemplaza líneas y ajusta stock por diferencia neta)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.RevisePurchaseRequest  true  "Nuevas líneas"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Revise(c *fiber.Ctx) error {
	var in dto.RevisePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RevisePurchase(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular compra (revierte stock y elimina la cuenta por pagar)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.CancelPurchaseRequest  false  "Clave de idempotencia"
// @Success      204   "anulada"
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelPurchaseRequest
	_ = c.BodyParser(&in) // body opcional
	if err := h.uc.CancelPurchase(c.Context(), GetUserID(c), c.Params("id"), in.IdempotencyKey); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SettlePayable godoc
// @Summary      Marcar como pagada la cuenta por pagar de una compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PayableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/payable/settle [post]
func (h *PurchaseHandler) SettlePayable(c *fiber.Ctx) error {
	out, err := h.uc.SettlePayable(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener compra con líneas y cuenta por pagar
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPurchase(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPurchases(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
