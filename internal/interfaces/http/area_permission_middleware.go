package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/authz"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/domain"
)

// LocalCompleteArea guarda el body ya parseado de completar área.
const LocalCompleteArea = "complete_area_request"

// areaPermissionChecker es el contrato mínimo que necesita el middleware; lo implementa *authz.Chain.
type areaPermissionChecker interface {
	CanEditArea(ctx context.Context, actor authz.Actor, areaName string) (bool, error)
}

// RequireAreaPermission verifica que el actor pueda registrar avance en el área del body.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 400 si el body no trae área.
//   - 404 si el área no existe en el catálogo.
//   - 403 si la cadena de permisos no lo autoriza.
//   - 503 si falla la consulta de permisos.
func RequireAreaPermission(checker areaPermissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetUserID(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		var in dto.CompleteAreaRequest
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		if strings.TrimSpace(in.Area) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el área es obligatoria"})
		}

		ok, err := checker.CanEditArea(c.Context(), currentActor(c), in.Area)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArea) {
				return writeError(c, err)
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "sin permiso para registrar avance en el área '" + in.Area + "'",
			})
		}
		c.Locals(LocalCompleteArea, in)
		return c.Next()
	}
}
