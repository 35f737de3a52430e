package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// PermissionRepository overrides de permisos por área.
type PermissionRepository interface {
	// FindOverride devuelve nil, nil si no hay override para (tipo de sujeto, sujeto, área).
	FindOverride(ctx context.Context, subjectKind string, subjectID, areaID int64) (*entity.AreaPermissionOverride, error)
}
