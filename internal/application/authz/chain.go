// Package authz decide si un actor puede registrar avance en un área.
// Las reglas se evalúan en cadena: override por usuario, override por rol y, al final,
// la lista fija de roles con acceso total.
package authz

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/internal/domain/production"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// Decision resultado de un resolver.
type Decision int

const (
	Abstain Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "abstain"
	}
}

// Actor identidad del usuario autenticado.
type Actor struct {
	UserID int64
	RoleID int64
}

// Resolver una regla de la cadena.
type Resolver interface {
	Resolve(ctx context.Context, actor Actor, area *entity.ProductionArea) (Decision, error)
}

// UserOverrideResolver permisos explícitos por usuario y área.
type UserOverrideResolver struct {
	Repo repository.PermissionRepository
}

// Resolve aplica el override del usuario sobre el área; sin usuario o sin override se abstiene.
func (r UserOverrideResolver) Resolve(ctx context.Context, actor Actor, area *entity.ProductionArea) (Decision, error) {
	if actor.UserID <= 0 {
		return Abstain, nil
	}
	return fromOverride(r.Repo.FindOverride(ctx, entity.PermissionSubjectUser, actor.UserID, area.ID))
}

// RoleOverrideResolver permisos explícitos por rol y área.
type RoleOverrideResolver struct {
	Repo repository.PermissionRepository
}

// Resolve aplica el override del rol sobre el área; sin rol o sin override se abstiene.
func (r RoleOverrideResolver) Resolve(ctx context.Context, actor Actor, area *entity.ProductionArea) (Decision, error) {
	if actor.RoleID <= 0 {
		return Abstain, nil
	}
	return fromOverride(r.Repo.FindOverride(ctx, entity.PermissionSubjectRole, actor.RoleID, area.ID))
}

func fromOverride(o *entity.AreaPermissionOverride, err error) (Decision, error) {
	if err != nil {
		return Abstain, err
	}
	if o == nil {
		return Abstain, nil
	}
	if o.Allowed {
		return Allow, nil
	}
	return Deny, nil
}

// RoleFallbackResolver concede todas las áreas a los roles configurados; con el resto se abstiene.
type RoleFallbackResolver struct {
	FullAccess map[int64]bool
}

// NewRoleFallbackResolver construye el resolver a partir de la lista de roles con acceso total.
func NewRoleFallbackResolver(roleIDs []int64) RoleFallbackResolver {
	m := make(map[int64]bool, len(roleIDs))
	for _, id := range roleIDs {
		m[id] = true
	}
	return RoleFallbackResolver{FullAccess: m}
}

// Resolve permite si el rol tiene acceso total y se abstiene en cualquier otro caso.
func (r RoleFallbackResolver) Resolve(_ context.Context, actor Actor, _ *entity.ProductionArea) (Decision, error) {
	if r.FullAccess[actor.RoleID] {
		return Allow, nil
	}
	return Abstain, nil
}

// Chain evalúa los resolvers en orden; el primero que no se abstiene decide.
// Si todos se abstienen, la respuesta es no.
type Chain struct {
	areas     repository.AreaRepository
	resolvers []Resolver
	log       *logger.Logger
}

// NewChain construye la cadena.
func NewChain(areas repository.AreaRepository, log *logger.Logger, resolvers ...Resolver) *Chain {
	return &Chain{areas: areas, resolvers: resolvers, log: log.Component("authz")}
}

// CanEditArea indica si el actor puede completar areaName. Un área inexistente devuelve
// el error de dominio correspondiente para que el caller responda 404 y no 403.
func (c *Chain) CanEditArea(ctx context.Context, actor Actor, areaName string) (bool, error) {
	areas, err := c.areas.ListOrdered(ctx)
	if err != nil {
		return false, err
	}
	_, area, err := production.NewBoard(areas, nil).Find(areaName)
	if err != nil {
		return false, err
	}
	for _, r := range c.resolvers {
		d, err := r.Resolve(ctx, actor, area)
		if err != nil {
			return false, err
		}
		if d != Abstain {
			c.log.Debug().Int64("user_id", actor.UserID).Int64("role_id", actor.RoleID).
				Str("area", area.Name).Str("decision", d.String()).Msg("permiso de área resuelto")
			return d == Allow, nil
		}
	}
	return false, nil
}
