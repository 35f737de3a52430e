package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/progress"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/testutil"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func setup(t *testing.T, state entity.ProjectState) (*testutil.Store, *progress.UseCase, int64) {
	t.Helper()
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	id := store.AddProject(entity.Project{Code: "PRY-1", ClientID: 1, Name: "Camisetas", State: state, CurrentArea: "Admin"})
	c := &clock{t: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	uc := progress.NewUseCase(store, store.Repos(), audit.NewRepositorySink(store.Audit(), logger.Nop()), logger.Nop()).
		WithClock(c.now)
	return store, uc, id
}

func TestCompleteArea_EscenarioTresAreas(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	ctx := context.Background()

	_, err := uc.CompleteArea(ctx, id, "QA", nil, "")
	assert.ErrorIs(t, err, domain.ErrOutOfOrder)
	assert.Zero(t, store.Counts().Progress, "la validación ocurre antes de escribir")

	out, err := uc.CompleteArea(ctx, id, "admin", nil, "")
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProjectStateInProcess), out.State)
	assert.Equal(t, "Diseño", out.CurrentArea)

	_, err = uc.CompleteArea(ctx, id, "DISENO", nil, "")
	require.NoError(t, err)

	out, err = uc.CompleteArea(ctx, id, "QA", nil, "listo")
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.Equal(t, "QA", out.CurrentArea)

	p := store.Project(id)
	assert.Equal(t, entity.ProjectStateFinished, p.State)
	assert.Equal(t, "QA", p.CurrentArea)

	view, err := uc.ListProgress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, [5]int{100, 100, 100, 0, 0}, view.AreaPercentages)
	require.Len(t, view.Areas, 3)
	assert.Equal(t, "listo", view.Areas[2].Note)
	assert.True(t, view.Finished)
}

func TestCompleteArea_Idempotencia(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	ctx := context.Background()

	_, err := uc.CompleteArea(ctx, id, "Admin", nil, "")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = uc.CompleteArea(ctx, id, "Admin", nil, "")
		assert.ErrorIs(t, err, domain.ErrAlreadyComplete, "intento repetido #%d", i+1)
	}
	assert.Equal(t, 1, store.Counts().Progress)

	view, err := uc.ListProgress(ctx, id)
	require.NoError(t, err)
	assert.False(t, view.Finished)
}

func TestCompleteArea_ConcurrenteUnSoloExito(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CompleteArea(context.Background(), id, "Admin", nil, "")
		}(i)
	}
	wg.Wait()

	ok, repeated := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyComplete):
			repeated++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, repeated)
	assert.Equal(t, 1, store.Counts().Progress)
	assert.Equal(t, "Diseño", store.Project(id).CurrentArea)
}

func TestCompleteArea_AreaInexistenteYProyectoInexistente(t *testing.T) {
	_, uc, id := setup(t, entity.ProjectStatePending)
	ctx := context.Background()

	_, err := uc.CompleteArea(ctx, id, "Bordado", nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArea)

	_, err = uc.CompleteArea(ctx, 999, "Admin", nil, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteArea_ProyectoCancelado(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStateCancelled)
	_, err := uc.CompleteArea(context.Background(), id, "Admin", nil, "")
	assert.ErrorIs(t, err, domain.ErrProjectClosed)
	assert.Zero(t, store.Counts().Progress)
}

func TestCompleteArea_FalloAlActualizarProyectoRevierte(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	store.FailOn("projects.update_progress", errors.New("timeout"))

	_, err := uc.CompleteArea(context.Background(), id, "Admin", nil, "")
	require.Error(t, err)
	assert.Zero(t, store.Counts().Progress, "la fila de avance se revierte con el proyecto")
	assert.Equal(t, entity.ProjectStatePending, store.Project(id).State)
}

func TestRetreatArea_DesdeFinalizado(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	ctx := context.Background()

	_, err := uc.RetreatArea(ctx, id, nil, "")
	assert.ErrorIs(t, err, domain.ErrNothingToRetreat)

	for _, a := range []string{"Admin", "Diseño", "QA"} {
		_, err := uc.CompleteArea(ctx, id, a, nil, "")
		require.NoError(t, err)
	}
	stockBefore := store.Supply(testutil.SupplyJersey).StockActual

	actor := int64(2)
	out, err := uc.RetreatArea(ctx, id, &actor, "defecto en costura")
	require.NoError(t, err)
	assert.Equal(t, "QA", out.Area)
	assert.Equal(t, 0, out.Percentage)
	assert.Equal(t, string(entity.ProjectStateInProcess), out.State)
	assert.Equal(t, "QA", out.CurrentArea)

	view, err := uc.ListProgress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, [5]int{100, 100, 0, 0, 0}, view.AreaPercentages)
	assert.Equal(t, 4, store.Counts().Progress, "el historial es de solo inserción")
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(stockBefore), "retroceder no devuelve stock")

	out, err = uc.RetreatArea(ctx, id, &actor, "")
	require.NoError(t, err)
	assert.Equal(t, "Diseño", out.Area)
	assert.Equal(t, "Diseño", store.Project(id).CurrentArea)
}

func TestCompleteArea_Auditoria(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	actor := int64(8)

	_, err := uc.CompleteArea(context.Background(), id, "Admin", &actor, "")
	require.NoError(t, err)

	fields := map[string]entity.AuditEntry{}
	for _, e := range store.AuditEntries() {
		fields[e.Field] = e
	}
	assert.Equal(t, string(entity.ProjectStateInProcess), fields["estado"].NewValue)
	assert.Equal(t, "Admin", fields["area_actual"].OldValue)
	assert.Equal(t, "Diseño", fields["area_actual"].NewValue)
}

func TestCompleteArea_FalloDeAuditoriaNoBloquea(t *testing.T) {
	store, uc, id := setup(t, entity.ProjectStatePending)
	store.FailOn("audit.create", errors.New("tabla bloqueada"))

	_, err := uc.CompleteArea(context.Background(), id, "Admin", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Counts().Progress)
}

func TestListAreas_Ordenadas(t *testing.T) {
	_, uc, _ := setup(t, entity.ProjectStatePending)
	areas, err := uc.ListAreas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "Admin", areas[0].Name)
	assert.Equal(t, "QA", areas[2].Name)
}
