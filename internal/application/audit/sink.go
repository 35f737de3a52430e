// Package audit registra la bitácora informativa de cambios de proyectos.
// Es un canal lateral de mejor esfuerzo: un fallo nunca bloquea el avance ni la creación.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// Sink destino de la bitácora. Record no retorna error a propósito.
type Sink interface {
	Record(ctx context.Context, projectID int64, actorID *int64, field, oldValue, newValue, note string)
}

// RepositorySink persiste en la tabla de auditoría y solo registra en log si falla.
type RepositorySink struct {
	repo repository.AuditRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewRepositorySink construye el sink sobre un repositorio de auditoría.
func NewRepositorySink(repo repository.AuditRepository, log *logger.Logger) *RepositorySink {
	return &RepositorySink{repo: repo, log: log.Component("audit"), now: time.Now}
}

// Record inserta la entrada; los errores (incluido un panic del repositorio) se registran y se descartan.
func (s *RepositorySink) Record(ctx context.Context, projectID int64, actorID *int64, field, oldValue, newValue, note string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Project(projectID).Error().Interface("panic", r).Msg("auditoría: panic al registrar")
		}
	}()
	entry := &entity.AuditEntry{
		ProjectID: projectID,
		ActorID:   actorID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Note:      note,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Project(projectID).Error().Err(err).Str("field", field).Msg("auditoría: no se pudo registrar")
	}
}

// NopSink descarta todo.
type NopSink struct{}

// Record no hace nada.
func (NopSink) Record(context.Context, int64, *int64, string, string, string, string) {}
