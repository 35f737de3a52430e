package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository sobre PostgreSQL (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador de proyectos. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, code, client_id, name, state, current_area, total_quantity, produced_quantity,
	scrap_quantity, notes, due_date, created_by, created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.Code, &p.ClientID, &p.Name, &p.State, &p.CurrentArea, &p.TotalQuantity,
		&p.ProducedQuantity, &p.ScrapQuantity, &p.Notes, &p.DueDate, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste el proyecto y asigna su ID.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (code, client_id, name, state, current_area, total_quantity, produced_quantity,
			scrap_quantity, notes, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Code, p.ClientID, p.Name, p.State, p.CurrentArea, p.TotalQuantity, p.ProducedQuantity,
		p.ScrapQuantity, p.Notes, p.DueDate, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de proyecto %s", domain.ErrDuplicate, p.Code)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente %d no existe", domain.ErrInvalidInput, p.ClientID)
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el proyecto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProjectRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project for update: %w", err)
	}
	return p, nil
}

// UpdateProgress actualiza estado y etiqueta del área en curso.
func (r *ProjectRepo) UpdateProgress(ctx context.Context, id int64, state entity.ProjectState, currentArea string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE projects SET state = $2, current_area = $3, updated_at = $4 WHERE id = $1`,
		id, state, currentArea, updatedAt)
	if err != nil {
		return fmt.Errorf("update project progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
