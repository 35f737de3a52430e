package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var (
	_ repository.AreaRepository         = (*AreaRepo)(nil)
	_ repository.AreaProgressRepository = (*AreaProgressRepo)(nil)
)

// AreaRepo catálogo de áreas de producción.
type AreaRepo struct {
	q Querier
}

// NewAreaRepository construye el adaptador del catálogo de áreas.
func NewAreaRepository(q Querier) *AreaRepo {
	return &AreaRepo{q: q}
}

// ListOrdered devuelve las áreas activas ordenadas.
func (r *AreaRepo) ListOrdered(ctx context.Context) ([]*entity.ProductionArea, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, sort_order FROM production_areas
		WHERE active
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionArea
	for rows.Next() {
		var a entity.ProductionArea
		if err := rows.Scan(&a.ID, &a.Name, &a.Order); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// AreaProgressRepo historial de avance (solo inserciones).
type AreaProgressRepo struct {
	q Querier
}

// NewAreaProgressRepository construye el adaptador del historial de avance.
func NewAreaProgressRepository(q Querier) *AreaProgressRepo {
	return &AreaProgressRepo{q: q}
}

// Insert agrega una fila de avance.
func (r *AreaProgressRepo) Insert(ctx context.Context, p *entity.AreaProgress) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO area_progress (project_id, area_id, percentage, recorded_at, recorded_by, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.ProjectID, p.AreaID, p.Percentage, p.RecordedAt, p.RecordedBy, p.Note,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert area progress: %w", err)
	}
	return nil
}

// ListByProject devuelve el historial del proyecto.
func (r *AreaProgressRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.AreaProgress, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, project_id, area_id, percentage, recorded_at, recorded_by, note
		FROM area_progress WHERE project_id = $1
		ORDER BY recorded_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list area progress: %w", err)
	}
	defer rows.Close()

	var list []*entity.AreaProgress
	for rows.Next() {
		var p entity.AreaProgress
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.AreaID, &p.Percentage, &p.RecordedAt, &p.RecordedBy, &p.Note); err != nil {
			return nil, fmt.Errorf("scan area progress: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
