package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
)

// SupplyHandler consulta y movimientos de stock de insumos.
type SupplyHandler struct {
	uc *supply.UseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *supply.UseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener insumo
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del insumo"
// @Success      200  {object}  dto.SupplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *SupplyHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos del insumo
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del insumo"
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SupplyMovementListResponse
// @Router       /api/supplies/{id}/movements [get]
func (h *SupplyHandler) Movements(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.ListMovements(c.Context(), id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Locations godoc
// @Summary      Stock por ubicación del insumo
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del insumo"
// @Success      200  {array}  dto.StockLocationDTO
// @Router       /api/supplies/{id}/locations [get]
func (h *SupplyHandler) Locations(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.ListLocations(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del insumo"
// @Param        body  body  dto.AdjustStockRequest  true  "nuevo stock y nota"
// @Success      200   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/adjust [post]
func (h *SupplyHandler) Adjust(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AdjustStock(c.Context(), id, actorID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Registrar entrada de stock en una ubicación
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID del insumo"
// @Param        body  body  dto.ReceiveStockRequest  true  "ubicación, cantidad, proyecto u orden de compra"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/supplies/{id}/receive [post]
func (h *SupplyHandler) Receive(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReceiveStock(c.Context(), id, actorID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
