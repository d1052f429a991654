package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-api/internal/application/dto"
	"github.com/tu-usuario/negocio-api/internal/domain"
)

// domainError mapea errores de dominio a respuestas HTTP. Los orquestadores de
// libros comparten taxonomía, así el mapeo vive en un solo lugar.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrMissingInventoryRecord):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_INVENTORY_RECORD", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrOverstock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVERSTOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrExcessiveAmortization):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXCESSIVE_AMORTIZATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateAccount):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ACCOUNT", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateOperation):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_OPERATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrLedgerMismatch):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "LEDGER_MISMATCH", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
