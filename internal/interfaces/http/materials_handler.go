package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
)

// MaterialsHandler cálculo y consulta de materiales.
type MaterialsHandler struct {
	uc *materials.UseCase
}

// NewMaterialsHandler construye el handler.
func NewMaterialsHandler(uc *materials.UseCase) *MaterialsHandler {
	return &MaterialsHandler{uc: uc}
}

// Preview godoc
// @Summary      Vista previa de materiales
// @Description  Calcula requerimientos y alertas sin escribir nada.
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MaterialsPreviewRequest  true  "prendas y materiales manuales"
// @Success      200   {object}  dto.MaterialsPreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/projects/materials/preview [post]
func (h *MaterialsHandler) Preview(c *fiber.Ctx) error {
	var in dto.MaterialsPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Preview(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Recalcular materiales AUTO
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del proyecto"
// @Success      200  {object}  dto.RecomputeMaterialsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/materials/recompute [post]
func (h *MaterialsHandler) Recompute(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Recompute(c.Context(), id, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Requerimientos de material del proyecto
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del proyecto"
// @Success      200  {array}  dto.MaterialRequirementDTO
// @Router       /api/projects/{id}/materials [get]
func (h *MaterialsHandler) List(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.ListRequirements(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
