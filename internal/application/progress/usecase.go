// Package progress orquesta el avance por áreas de los proyectos sobre la máquina de estados
// de internal/domain/production, dentro de una transacción por operación.
package progress

import (
	"context"
	"time"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/ports"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/production"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// UseCase completar / retroceder áreas y consultar el avance.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	audit    audit.Sink
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, sink audit.Sink, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, audit: sink, log: log.Component("progress"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// CompleteArea marca areaName al 100% para el proyecto. Exige que el área anterior esté completa.
func (uc *UseCase) CompleteArea(ctx context.Context, projectID int64, areaName string, actorID *int64, note string) (*dto.AreaTransitionResponse, error) {
	tr, err := uc.apply(ctx, projectID, func(b *production.Board, p *entity.Project) (*production.Transition, error) {
		return production.Complete(b, p, areaName, actorID, note, uc.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Project(projectID).Info().Str("area", tr.Area.Name).Str("state", string(tr.State))
	if tr.Finished {
		ev.Msg("proyecto finalizado")
	} else {
		ev.Msg("área completada")
	}
	uc.record(ctx, projectID, actorID, tr, note)
	return toTransitionResponse(projectID, tr), nil
}

// RetreatArea devuelve al 0% la última área completa del proyecto.
func (uc *UseCase) RetreatArea(ctx context.Context, projectID int64, actorID *int64, note string) (*dto.AreaTransitionResponse, error) {
	tr, err := uc.apply(ctx, projectID, func(b *production.Board, p *entity.Project) (*production.Transition, error) {
		return production.Retreat(b, p, actorID, note, uc.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Project(projectID).Info().Str("area", tr.Area.Name).Str("state", string(tr.State)).Msg("área retrocedida")
	uc.record(ctx, projectID, actorID, tr, note)
	return toTransitionResponse(projectID, tr), nil
}

// apply carga proyecto (bloqueado), catálogo e historial, calcula la transición y la persiste.
func (uc *UseCase) apply(ctx context.Context, projectID int64, step func(*production.Board, *entity.Project) (*production.Transition, error)) (*production.Transition, error) {
	var out *production.Transition
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		project, err := r.Projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return domain.ErrNotFound
		}
		board, err := loadBoard(ctx, r, projectID)
		if err != nil {
			return err
		}
		tr, err := step(board, project)
		if err != nil {
			return err
		}
		if err := r.Progress.Insert(ctx, tr.Progress); err != nil {
			return err
		}
		if err := r.Projects.UpdateProgress(ctx, projectID, tr.State, tr.CurrentArea, tr.Progress.RecordedAt); err != nil {
			return err
		}
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UseCase) record(ctx context.Context, projectID int64, actorID *int64, tr *production.Transition, note string) {
	if tr.StateChanged() {
		uc.audit.Record(ctx, projectID, actorID, "estado", string(tr.PreviousState), string(tr.State), note)
	}
	if tr.CurrentArea != tr.PreviousLabel {
		uc.audit.Record(ctx, projectID, actorID, "area_actual", tr.PreviousLabel, tr.CurrentArea, note)
	}
}

// ListProgress devuelve la proyección de avance del proyecto (por área y espejo de cinco posiciones).
func (uc *UseCase) ListProgress(ctx context.Context, projectID int64) (*dto.ProjectProgressResponse, error) {
	project, err := uc.repos.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	board, err := loadBoard(ctx, uc.repos, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectProgressResponse{
		ProjectID:       projectID,
		State:           string(project.State),
		CurrentArea:     project.CurrentArea,
		AreaPercentages: board.LegacySlots(),
		Areas:           ToAreaProgressDTOs(board),
		Finished:        board.Finished(),
	}, nil
}

// ListAreas devuelve el catálogo de áreas ordenado.
func (uc *UseCase) ListAreas(ctx context.Context) ([]dto.AreaDTO, error) {
	areas, err := uc.repos.Areas.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	board := production.NewBoard(areas, nil)
	out := make([]dto.AreaDTO, 0, len(areas))
	for _, a := range board.Areas() {
		out = append(out, dto.AreaDTO{ID: a.ID, Name: a.Name, Order: a.Order})
	}
	return out, nil
}

// LoadBoard construye el tablero de un proyecto con los repos dados.
func LoadBoard(ctx context.Context, r repository.Repos, projectID int64) (*production.Board, error) {
	return loadBoard(ctx, r, projectID)
}

func loadBoard(ctx context.Context, r repository.Repos, projectID int64) (*production.Board, error) {
	areas, err := r.Areas.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	history, err := r.Progress.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return production.NewBoard(areas, history), nil
}

// ToAreaProgressDTOs proyección por área del tablero.
func ToAreaProgressDTOs(b *production.Board) []dto.AreaProgressDTO {
	slots := b.Slots()
	out := make([]dto.AreaProgressDTO, 0, len(slots))
	for _, s := range slots {
		d := dto.AreaProgressDTO{AreaID: s.AreaID, Name: s.Name, Order: s.Order, Percentage: s.Percentage}
		if s.Latest != nil {
			at := s.Latest.RecordedAt
			d.RecordedAt = &at
			d.RecordedBy = s.Latest.RecordedBy
			d.Note = s.Latest.Note
		}
		out = append(out, d)
	}
	return out
}

func toTransitionResponse(projectID int64, tr *production.Transition) *dto.AreaTransitionResponse {
	return &dto.AreaTransitionResponse{
		ProjectID:   projectID,
		Area:        tr.Area.Name,
		Percentage:  tr.Progress.Percentage,
		State:       string(tr.State),
		CurrentArea: tr.CurrentArea,
		Finished:    tr.Finished,
	}
}
