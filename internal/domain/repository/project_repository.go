package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para proyectos.
type ProjectRepository interface {
	// Create persiste el proyecto y asigna project.ID.
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	// GetForUpdate obtiene el proyecto y bloquea la fila (SELECT FOR UPDATE) para serializar
	// las mutaciones de avance y materiales del mismo proyecto.
	GetForUpdate(ctx context.Context, id int64) (*entity.Project, error)
	// UpdateProgress actualiza estado y etiqueta del área en curso.
	UpdateProgress(ctx context.Context, id int64, state entity.ProjectState, currentArea string, updatedAt time.Time) error
}
