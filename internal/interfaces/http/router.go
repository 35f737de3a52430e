package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Confeccion-api/internal/application/authz"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
	"github.com/jhoicas/Confeccion-api/internal/application/progress"
	"github.com/jhoicas/Confeccion-api/internal/application/project"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
)

// Roles con permisos de supervisión y de bodega.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleBodeguero  = "bodeguero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProjectUC   *project.UseCase
	ProgressUC  *progress.UseCase
	MaterialsUC *materials.UseCase
	SupplyUC    *supply.UseCase
	Permissions *authz.Chain
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	areaHandler := NewAreaHandler(deps.ProgressUC)
	api.Get("/areas", areaHandler.ListAreas)

	projects := api.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	materialsHandler := NewMaterialsHandler(deps.MaterialsUC)
	// Antes de /:id para que "materials" no se interprete como ID.
	projects.Post("/materials/preview", materialsHandler.Preview)
	projects.Post("/", projectHandler.Create)
	projects.Get("/:id", projectHandler.GetByID)

	projects.Get("/:id/areas", areaHandler.ListProgress)
	projects.Post("/:id/areas/complete", RequireAreaPermission(deps.Permissions), areaHandler.Complete)
	projects.Post("/:id/areas/retreat", RequireRole(RoleAdmin, RoleSupervisor), areaHandler.Retreat)

	projects.Get("/:id/materials", materialsHandler.List)
	projects.Post("/:id/materials/recompute", RequireRole(RoleAdmin, RoleSupervisor), materialsHandler.Recompute)

	supplies := api.Group("/supplies")
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	supplies.Get("/:id", supplyHandler.GetByID)
	supplies.Get("/:id/movements", supplyHandler.Movements)
	supplies.Get("/:id/locations", supplyHandler.Locations)
	supplies.Post("/:id/adjust", RequireRole(RoleAdmin, RoleBodeguero), supplyHandler.Adjust)
	supplies.Post("/:id/receive", RequireRole(RoleAdmin, RoleBodeguero), supplyHandler.Receive)
}
