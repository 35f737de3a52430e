package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// AuditRepository bitácora de cambios de proyectos (solo inserciones).
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
}
