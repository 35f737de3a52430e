package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo overrides de permisos por área (la administración de la tabla es externa).
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// FindOverride devuelve el override o nil si no existe.
func (r *PermissionRepo) FindOverride(ctx context.Context, subjectKind string, subjectID, areaID int64) (*entity.AreaPermissionOverride, error) {
	var o entity.AreaPermissionOverride
	err := r.q.QueryRow(ctx, `
		SELECT subject_kind, subject_id, area_id, allowed
		FROM area_permission_overrides
		WHERE subject_kind = $1 AND subject_id = $2 AND area_id = $3`, subjectKind, subjectID, areaID,
	).Scan(&o.SubjectKind, &o.SubjectID, &o.AreaID, &o.Allowed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find permission override: %w", err)
	}
	return &o, nil
}
