package production

import (
	"fmt"
	"time"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// Transition cambios a persistir tras completar o retroceder un área.
type Transition struct {
	Progress      *entity.AreaProgress
	Area          *entity.ProductionArea
	PreviousState entity.ProjectState
	State         entity.ProjectState
	PreviousLabel string
	CurrentArea   string
	Finished      bool
}

// StateChanged indica si la transición cambia el estado del proyecto.
func (t *Transition) StateChanged() bool { return t.PreviousState != t.State }

// Complete valida y calcula la transición de completar areaName al 100%.
// Solo modifica el tablero en memoria; la persistencia es responsabilidad del caller.
func Complete(b *Board, project *entity.Project, areaName string, actorID *int64, note string, now time.Time) (*Transition, error) {
	if project.State.Closed() {
		return nil, fmt.Errorf("%w: estado %s", domain.ErrProjectClosed, project.State)
	}
	plan, err := b.PlanCompletion(areaName)
	if err != nil {
		return nil, err
	}

	progress := &entity.AreaProgress{
		ProjectID:  project.ID,
		AreaID:     plan.Area.ID,
		Percentage: entity.ProgressComplete,
		RecordedAt: notBefore(now, b.Latest(plan.Area.ID)),
		RecordedBy: actorID,
		Note:       note,
	}
	b.Apply(progress)

	t := &Transition{
		Progress:      progress,
		Area:          plan.Area,
		PreviousState: project.State,
		State:         project.State,
		PreviousLabel: project.CurrentArea,
	}
	if plan.Last {
		t.State = entity.ProjectStateFinished
		t.CurrentArea = plan.Area.Name
		t.Finished = true
		return t, nil
	}
	t.CurrentArea = b.CurrentLabel()
	if project.State == entity.ProjectStatePending || project.State == entity.ProjectStatePaused {
		t.State = entity.ProjectStateInProcess
	}
	return t, nil
}

// Retreat calcula la transición de devolver al 0% la última área completa.
// El historial se conserva: se inserta una fila nueva en lugar de borrar.
func Retreat(b *Board, project *entity.Project, actorID *int64, note string, now time.Time) (*Transition, error) {
	if project.State.Closed() {
		return nil, fmt.Errorf("%w: estado %s", domain.ErrProjectClosed, project.State)
	}
	area, err := b.PlanRetreat()
	if err != nil {
		return nil, err
	}

	progress := &entity.AreaProgress{
		ProjectID:  project.ID,
		AreaID:     area.ID,
		Percentage: entity.ProgressNone,
		RecordedAt: notBefore(now, b.Latest(area.ID)),
		RecordedBy: actorID,
		Note:       note,
	}
	b.Apply(progress)

	t := &Transition{
		Progress:      progress,
		Area:          area,
		PreviousState: project.State,
		State:         project.State,
		PreviousLabel: project.CurrentArea,
		CurrentArea:   b.CurrentLabel(),
	}
	if project.State == entity.ProjectStateFinished {
		t.State = entity.ProjectStateInProcess
	}
	return t, nil
}

// notBefore evita que una fila nueva quede "más vieja" que la vigente por desfase de reloj;
// con la misma marca de tiempo decide el ID, que es creciente.
func notBefore(now time.Time, latest *entity.AreaProgress) time.Time {
	if latest != nil && latest.RecordedAt.After(now) {
		return latest.RecordedAt
	}
	return now
}
