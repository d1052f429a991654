package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/application/receivables"
)

// ReceivableHandler maneja cuentas por cobrar y su libro de entradas.
type ReceivableHandler struct {
	uc *receivables.ReceivableUseCase
}

// NewReceivableHandler construye el handler.
func NewReceivableHandler(uc *receivables.ReceivableUseCase) *ReceivableHandler {
	return &ReceivableHandler{uc: uc}
}

// OpenAccount godoc
// @Summary      Abrir cuenta por cobrar con su primer préstamo
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenReceivableRequest  true  "Cliente y préstamo inicial"
// @Success      201   {object}  dto.ReceivableAccountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receivables [post]
func (h *ReceivableHandler) OpenAccount(c *fiber.Ctx) error {
	var in dto.OpenReceivableRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.OpenAccount(c.Context(), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterEntry godoc
// @Summary      Registrar préstamo o abono en una cuenta por cobrar
// @Tags         receivables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cuenta"
// @Param        body  body  dto.RegisterEntryRequest  true  "Entrada"
// @Success      201   {object}  dto.ReceivableEntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/entries [post]
func (h *ReceivableHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterEntry(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetAccount godoc
// @Summary      Obtener cuenta por cobrar
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ReceivableAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id} [get]
func (h *ReceivableHandler) GetAccount(c *fiber.Ctx) error {
	out, err := h.uc.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListEntries godoc
// @Summary      Historial de entradas de una cuenta por cobrar
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la cuenta"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.ReceivableEntryResponse
// @Router       /api/receivables/{id}/entries [get]
func (h *ReceivableHandler) ListEntries(c *fiber.Ctx) error {
	out, err := h.uc.ListEntries(c.Context(), c.Params("id"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliar saldo cacheado contra el libro de entradas
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ReceivableAccountResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/reconcile [get]
func (h *ReceivableHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
