package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/sales"
)

// SaleHandler maneja registro, anulación y consulta de ventas.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar venta (descuenta stock en una transacción)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Anular venta (reintegra stock)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  false  "Clave de idempotencia"
// @Success      204   "anulada"
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	_ = c.BodyParser(&in) // body opcional
	if err := h.uc.CancelSale(c.Context(), GetUserID(c), c.Params("id"), in.IdempotencyKey); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener venta con líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListSales(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
