package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// GarmentRepository líneas de prenda y su distribución por tallas.
type GarmentRepository interface {
	// Create persiste la línea y sus tallas; asigna IDs.
	Create(ctx context.Context, line *entity.GarmentLine) error
	// ListByProject devuelve las líneas (con tallas) ordenadas por posición.
	ListByProject(ctx context.Context, projectID int64) ([]*entity.GarmentLine, error)
}
