package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: se toma la primera coincidencia.
var errorMappings = []errorMapping{
	{domain.ErrSizeSumMismatch, fiber.StatusBadRequest, "SIZE_SUM_MISMATCH"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidArea, fiber.StatusNotFound, "INVALID_AREA"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrOutOfOrder, fiber.StatusConflict, "OUT_OF_ORDER"},
	{domain.ErrAlreadyComplete, fiber.StatusConflict, "ALREADY_COMPLETE"},
	{domain.ErrNothingToRetreat, fiber.StatusConflict, "NOTHING_TO_RETREAT"},
	{domain.ErrProjectClosed, fiber.StatusConflict, "PROJECT_CLOSED"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrOutOfStockCatalog, fiber.StatusUnprocessableEntity, "OUT_OF_STOCK_CATALOG"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
}

// writeError traduce un error de dominio a status HTTP y dto.ErrorResponse.
// Los errores de infraestructura salen como 500 sin exponer el detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee un :id positivo.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}
