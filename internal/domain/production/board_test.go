package production_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/production"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

// catalogo de tres áreas, entregado desordenado a propósito.
func catalogo() []*entity.ProductionArea {
	return []*entity.ProductionArea{
		{ID: 30, Name: "QA", Order: 2},
		{ID: 10, Name: "Admin", Order: 0},
		{ID: 20, Name: "Diseño", Order: 1},
	}
}

func avance(id, areaID int64, pct int, at time.Time) *entity.AreaProgress {
	return &entity.AreaProgress{ID: id, ProjectID: 1, AreaID: areaID, Percentage: pct, RecordedAt: at}
}

func proyecto(state entity.ProjectState) *entity.Project {
	return &entity.Project{ID: 1, State: state, CurrentArea: "Admin"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Board
// ──────────────────────────────────────────────────────────────────────────────

func TestNewBoard_OrdenaPorOrder(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	names := []string{}
	for _, a := range b.Areas() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Admin", "Diseño", "QA"}, names)
	assert.Equal(t, "Admin", b.CurrentLabel())
	assert.False(t, b.Finished())
}

// Dos filas con la misma marca de tiempo: gana el ID mayor.
func TestNewBoard_UltimoAvanceDesempatePorID(t *testing.T) {
	history := []*entity.AreaProgress{
		avance(5, 10, 0, t0),
		avance(4, 10, 100, t0),
	}
	b := production.NewBoard(catalogo(), history)
	assert.Equal(t, 0, b.Percentage(10))

	history = append(history, avance(3, 10, 100, t0.Add(time.Minute)))
	b = production.NewBoard(catalogo(), history)
	assert.Equal(t, 100, b.Percentage(10), "la marca de tiempo más reciente manda")
}

func TestFind_InsensibleATildesYMayusculas(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)

	idx, area, err := b.Find("DISENO")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(20), area.ID)

	_, _, err = b.Find("Bordado")
	assert.ErrorIs(t, err, domain.ErrInvalidArea)

	_, _, err = b.Find("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArea)
}

func TestLegacySlots_RellenaConCeros(t *testing.T) {
	history := []*entity.AreaProgress{
		avance(1, 10, 100, t0),
		avance(2, 20, 100, t0.Add(time.Minute)),
		avance(3, 30, 100, t0.Add(2*time.Minute)),
	}
	b := production.NewBoard(catalogo(), history)
	assert.Equal(t, [5]int{100, 100, 100, 0, 0}, b.LegacySlots())
	assert.True(t, b.Finished())
	assert.Equal(t, "QA", b.CurrentLabel())

	slots := b.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, "QA", slots[2].Name)
	assert.Equal(t, int64(3), slots[2].Latest.ID)
}

func TestLegacySlots_CatalogoMayorACinco(t *testing.T) {
	var areas []*entity.ProductionArea
	var history []*entity.AreaProgress
	for i := 0; i < 7; i++ {
		areas = append(areas, &entity.ProductionArea{ID: int64(i + 1), Name: string(rune('A' + i)), Order: i})
		history = append(history, avance(int64(i+1), int64(i+1), 100, t0))
	}
	b := production.NewBoard(areas, history)
	assert.Equal(t, [5]int{100, 100, 100, 100, 100}, b.LegacySlots())
	assert.Len(t, b.Slots(), 7, "la proyección derivada no está limitada a cinco áreas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete / Retreat
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_FueraDeOrden(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	_, err := production.Complete(b, proyecto(entity.ProjectStatePending), "QA", nil, "", t0)
	assert.ErrorIs(t, err, domain.ErrOutOfOrder)
	assert.Nil(t, b.Latest(30), "un intento fallido no modifica el tablero")
}

func TestComplete_PrimeraAreaPasaAEnProceso(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	actor := int64(9)

	tr, err := production.Complete(b, proyecto(entity.ProjectStatePending), "admin", &actor, "corte listo", t0)
	require.NoError(t, err)

	assert.Equal(t, entity.ProjectStateInProcess, tr.State)
	assert.True(t, tr.StateChanged())
	assert.Equal(t, "Diseño", tr.CurrentArea)
	assert.False(t, tr.Finished)
	assert.Equal(t, 100, tr.Progress.Percentage)
	assert.Equal(t, &actor, tr.Progress.RecordedBy)
	assert.Equal(t, "corte listo", tr.Progress.Note)
}

func TestComplete_PausadoPasaAEnProceso(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	tr, err := production.Complete(b, proyecto(entity.ProjectStatePaused), "Admin", nil, "", t0)
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStateInProcess, tr.State)
}

func TestComplete_YaCompleta(t *testing.T) {
	b := production.NewBoard(catalogo(), []*entity.AreaProgress{avance(1, 10, 100, t0)})
	_, err := production.Complete(b, proyecto(entity.ProjectStateInProcess), "Admin", nil, "", t0)
	assert.ErrorIs(t, err, domain.ErrAlreadyComplete)
}

func TestComplete_UltimaAreaFinaliza(t *testing.T) {
	b := production.NewBoard(catalogo(), []*entity.AreaProgress{
		avance(1, 10, 100, t0),
		avance(2, 20, 100, t0),
	})
	tr, err := production.Complete(b, proyecto(entity.ProjectStateInProcess), "qa", nil, "", t0)
	require.NoError(t, err)
	assert.True(t, tr.Finished)
	assert.Equal(t, entity.ProjectStateFinished, tr.State)
	assert.Equal(t, "QA", tr.CurrentArea)
	assert.Equal(t, [5]int{100, 100, 100, 0, 0}, b.LegacySlots())
}

func TestComplete_ProyectoCerrado(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	for _, st := range []entity.ProjectState{entity.ProjectStateCancelled, entity.ProjectStateArchived} {
		_, err := production.Complete(b, proyecto(st), "Admin", nil, "", t0)
		assert.ErrorIs(t, err, domain.ErrProjectClosed)
	}
}

// Si el reloj va por detrás del último registro, la fila nueva hereda esa marca y gana por ID.
func TestComplete_RelojAtrasado(t *testing.T) {
	b := production.NewBoard(catalogo(), []*entity.AreaProgress{avance(1, 10, 0, t0.Add(time.Hour))})
	tr, err := production.Complete(b, proyecto(entity.ProjectStatePending), "Admin", nil, "", t0)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), tr.Progress.RecordedAt)
}

func TestRetreat_SinAreasCompletas(t *testing.T) {
	b := production.NewBoard(catalogo(), nil)
	_, err := production.Retreat(b, proyecto(entity.ProjectStatePending), nil, "", t0)
	assert.ErrorIs(t, err, domain.ErrNothingToRetreat)
}

func TestRetreat_DesdeFinalizado(t *testing.T) {
	b := production.NewBoard(catalogo(), []*entity.AreaProgress{
		avance(1, 10, 100, t0),
		avance(2, 20, 100, t0),
		avance(3, 30, 100, t0),
	})
	tr, err := production.Retreat(b, proyecto(entity.ProjectStateFinished), nil, "error en QA", t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, int64(30), tr.Area.ID)
	assert.Equal(t, 0, tr.Progress.Percentage)
	assert.Equal(t, entity.ProjectStateInProcess, tr.State)
	assert.Equal(t, "QA", tr.CurrentArea)
	assert.Equal(t, 0, b.Percentage(30))
}

// Retroceder toma la última área completa aunque haya huecos.
func TestRetreat_BuscaDesdeElFinal(t *testing.T) {
	b := production.NewBoard(catalogo(), []*entity.AreaProgress{
		avance(1, 10, 100, t0),
		avance(2, 20, 100, t0),
		avance(3, 20, 0, t0.Add(time.Minute)),
	})
	tr, err := production.Retreat(b, proyecto(entity.ProjectStateInProcess), nil, "", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(10), tr.Area.ID)
	assert.Equal(t, entity.ProjectStateInProcess, tr.State)
	assert.Equal(t, "Admin", tr.CurrentArea)
}
