package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de cambios de proyectos.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Se usa con el pool: la bitácora va fuera de la transacción.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO audit_log (project_id, actor_id, field, old_value, new_value, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		e.ProjectID, e.ActorID, e.Field, e.OldValue, e.NewValue, e.Note, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
