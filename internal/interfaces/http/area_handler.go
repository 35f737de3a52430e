package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/progress"
)

// AreaHandler avance por áreas de producción.
type AreaHandler struct {
	uc *progress.UseCase
}

// NewAreaHandler construye el handler.
func NewAreaHandler(uc *progress.UseCase) *AreaHandler {
	return &AreaHandler{uc: uc}
}

// ListAreas godoc
// @Summary      Catálogo de áreas
// @Tags         areas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AreaDTO
// @Router       /api/areas [get]
func (h *AreaHandler) ListAreas(c *fiber.Ctx) error {
	list, err := h.uc.ListAreas(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListProgress godoc
// @Summary      Avance del proyecto por área
// @Tags         areas
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectProgressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/areas [get]
func (h *AreaHandler) ListProgress(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.ListProgress(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar área
// @Description  Marca el área al 100%. Requiere que la anterior esté completa y permiso sobre el área.
// @Tags         areas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID del proyecto"
// @Param        body  body  dto.CompleteAreaRequest  true  "área y nota"
// @Success      200   {object}  dto.AreaTransitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/areas/complete [post]
func (h *AreaHandler) Complete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	in, ok := c.Locals(LocalCompleteArea).(dto.CompleteAreaRequest)
	if !ok {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.CompleteArea(c.Context(), id, in.Area, actorID(c), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Retreat godoc
// @Summary      Retroceder área
// @Description  Devuelve al 0% la última área completa. No devuelve stock.
// @Tags         areas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true   "ID del proyecto"
// @Param        body  body  dto.RetreatAreaRequest  false  "nota"
// @Success      200   {object}  dto.AreaTransitionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/areas/retreat [post]
func (h *AreaHandler) Retreat(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.RetreatAreaRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.RetreatArea(c.Context(), id, actorID(c), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
