package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// AreaRepository catálogo de áreas de producción (solo lectura para este servicio).
type AreaRepository interface {
	// ListOrdered devuelve las áreas ordenadas por "order" ascendente.
	ListOrdered(ctx context.Context) ([]*entity.ProductionArea, error)
}

// AreaProgressRepository historial de avance por (proyecto, área). Solo inserciones.
type AreaProgressRepository interface {
	// Insert agrega una fila y asigna progress.ID (creciente).
	Insert(ctx context.Context, progress *entity.AreaProgress) error
	// ListByProject devuelve todo el historial del proyecto ordenado por (recorded_at, id).
	ListByProject(ctx context.Context, projectID int64) ([]*entity.AreaProgress, error)
}
