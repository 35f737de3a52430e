package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
	"github.com/jhoicas/Confeccion-api/internal/application/project"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/internal/testutil"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func newUseCase(store *testutil.Store, block bool) *project.UseCase {
	ledger := supply.NewLedgerWithClock(func() time.Time { return fixedNow })
	engine := materials.NewEngine(ledger, materials.Options{BlockOnInsufficientStock: block}, logger.Nop())
	sink := audit.NewRepositorySink(store.Audit(), logger.Nop())
	return project.NewUseCase(store, store.Repos(), engine, sink, "PRY", logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
}

func tshirtRequest(qty int) dto.CreateProjectRequest {
	return dto.CreateProjectRequest{
		ClientID: 3,
		Name:     "Uniformes colegio",
		Garments: []dto.GarmentRequest{{
			GarmentTypeID:  testutil.GarmentTShirt,
			MaterialTypeID: testutil.MaterialJersey,
			TotalQuantity:  qty,
			Sizes: []dto.SizeRequest{
				{Size: "S", Quantity: qty / 2},
				{Size: "M", Quantity: qty - qty/2},
			},
		}},
	}
}

func TestCreate_DescuentaStockSuficiente(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := newUseCase(store, false)

	out, err := uc.Create(context.Background(), tshirtRequest(100), nil)
	require.NoError(t, err)

	assert.Empty(t, out.Alerts)
	assert.Equal(t, string(entity.ProjectStatePending), out.Project.State)
	assert.Equal(t, "Admin", out.Project.CurrentArea)
	assert.Equal(t, 100, out.Project.TotalQuantity)
	assert.Regexp(t, `^PRY-261015-[0-9A-F]{6}$`, out.Project.Code)
	assert.Equal(t, [5]int{0, 0, 0, 0, 0}, out.Project.AreaPercentages)
	require.Len(t, out.Project.Garments, 1)
	assert.Len(t, out.Project.Garments[0].Sizes, 2)

	require.Len(t, out.Project.Requirements, 1)
	req := out.Project.Requirements[0]
	assert.Equal(t, "AUTO", req.Kind)
	assert.True(t, req.AutoQuantity.Equal(decimal.NewFromInt(50)))
	assert.True(t, req.StockSufficient)

	sp := store.Supply(testutil.SupplyJersey)
	assert.True(t, sp.StockActual.Equal(decimal.NewFromInt(10)), "60 - 100*0.5 = 10")
	assert.Equal(t, entity.SupplyStateInUse, sp.State)
}

func TestCreate_StockInsuficienteContinuaConAlerta(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 30)
	uc := newUseCase(store, false)

	out, err := uc.Create(context.Background(), tshirtRequest(100), nil)
	require.NoError(t, err)

	require.Len(t, out.Alerts, 1)
	assert.Equal(t, dto.AlertInsufficientStock, out.Alerts[0].Type)
	assert.False(t, out.Alerts[0].Blocking)
	assert.False(t, out.Project.Requirements[0].StockSufficient)

	sp := store.Supply(testutil.SupplyJersey)
	assert.True(t, sp.StockActual.IsZero())
	assert.Equal(t, entity.SupplyStateDepleted, sp.State)
}

func TestCreate_PoliticaBloqueanteRevierteTodo(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 30)
	uc := newUseCase(store, true)

	_, err := uc.Create(context.Background(), tshirtRequest(100), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, testutil.Counts{}, store.Counts())
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(30)))
}

func TestCreate_SumaDeTallasNoCuadra(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := newUseCase(store, false)

	in := tshirtRequest(100)
	in.Garments[0].Sizes = []dto.SizeRequest{{Size: "S", Quantity: 40}, {Size: "M", Quantity: 50}}

	_, err := uc.Create(context.Background(), in, nil)
	assert.ErrorIs(t, err, domain.ErrSizeSumMismatch)
	assert.Equal(t, testutil.Counts{}, store.Counts(), "no se persiste ninguna fila")
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(60)))
}

func TestCreate_MaterialSinInsumosEsFatal(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := newUseCase(store, false)

	in := tshirtRequest(10)
	in.Garments = append(in.Garments, dto.GarmentRequest{
		GarmentTypeID:  testutil.GarmentTShirt,
		MaterialTypeID: testutil.MaterialWithoutItem,
		TotalQuantity:  2,
		Sizes:          []dto.SizeRequest{{Size: "L", Quantity: 2}},
	})

	_, err := uc.Create(context.Background(), in, nil)
	assert.ErrorIs(t, err, domain.ErrOutOfStockCatalog)
	assert.Equal(t, testutil.Counts{}, store.Counts())
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(60)))
}

func TestCreate_FalloDeInfraestructuraRevierte(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	store.FailOn("requirements.create", errors.New("conexión perdida"))
	uc := newUseCase(store, false)

	_, err := uc.Create(context.Background(), tshirtRequest(100), nil)
	require.Error(t, err)
	assert.Equal(t, testutil.Counts{}, store.Counts())
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(60)))
}

func TestCreate_MaterialManualLigadoAPrenda(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := newUseCase(store, false)

	idx := 0
	in := tshirtRequest(10)
	in.ManualMaterials = []dto.ManualMaterialRequest{
		{SupplyID: testutil.SupplyThread, Quantity: decimal.NewFromInt(3), GarmentIndex: &idx, Note: "hilo blanco"},
		{SupplyID: 9999, Quantity: decimal.NewFromInt(1)},
	}

	out, err := uc.Create(context.Background(), in, nil)
	require.NoError(t, err)

	require.Len(t, out.Project.Requirements, 2)
	var manual dto.MaterialRequirementDTO
	for _, r := range out.Project.Requirements {
		if r.Kind == "MANUAL" {
			manual = r
		}
	}
	require.NotNil(t, manual.ManualQuantity)
	assert.True(t, manual.ManualQuantity.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, manual.GarmentLineID)
	assert.Equal(t, out.Project.Garments[0].ID, *manual.GarmentLineID)
	assert.Equal(t, "hilo blanco", manual.Note)

	require.Len(t, out.Alerts, 1, "el insumo manual inexistente solo advierte")
	assert.Equal(t, dto.AlertAdvisory, out.Alerts[0].Type)
	assert.True(t, store.Supply(testutil.SupplyThread).StockActual.Equal(decimal.NewFromInt(17)))
}

func TestCreate_RegistraAuditoria(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := newUseCase(store, false)
	actor := int64(4)

	out, err := uc.Create(context.Background(), tshirtRequest(10), &actor)
	require.NoError(t, err)

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, out.Project.ID, entries[0].ProjectID)
	assert.Equal(t, string(entity.ProjectStatePending), entries[0].NewValue)
	assert.Equal(t, &actor, entries[0].ActorID)
}

func TestValidate(t *testing.T) {
	base := tshirtRequest(10)

	cases := map[string]func(r *dto.CreateProjectRequest){
		"sin cliente":      func(r *dto.CreateProjectRequest) { r.ClientID = 0 },
		"sin nombre":       func(r *dto.CreateProjectRequest) { r.Name = "  " },
		"sin prendas":      func(r *dto.CreateProjectRequest) { r.Garments = nil },
		"cantidad cero":    func(r *dto.CreateProjectRequest) { r.Garments[0].TotalQuantity = 0 },
		"manual sin stock": func(r *dto.CreateProjectRequest) { r.ManualMaterials = []dto.ManualMaterialRequest{{SupplyID: 1}} },
		"manual con mas de cuatro decimales": func(r *dto.CreateProjectRequest) {
			r.ManualMaterials = []dto.ManualMaterialRequest{{SupplyID: 1, Quantity: decimal.RequireFromString("0.12345")}}
		},
		"indice de prenda fuera de rango": func(r *dto.CreateProjectRequest) {
			i := 5
			r.ManualMaterials = []dto.ManualMaterialRequest{{SupplyID: 1, Quantity: decimal.NewFromInt(1), GarmentIndex: &i}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := base
			r.Garments = append([]dto.GarmentRequest(nil), base.Garments...)
			mutate(&r)
			assert.ErrorIs(t, project.Validate(r), domain.ErrInvalidInput)
		})
	}
	assert.NoError(t, project.Validate(base))
}

// garmentsSinLectura falla al listar prendas; la escritura pasa al repositorio real.
type garmentsSinLectura struct {
	repository.GarmentRepository
}

func (garmentsSinLectura) ListByProject(context.Context, int64) ([]*entity.GarmentLine, error) {
	return nil, errors.New("timeout de la réplica de lectura")
}

func TestCreate_RespuestaNoDependeDeLecturaPosterior(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	ledger := supply.NewLedgerWithClock(func() time.Time { return fixedNow })
	engine := materials.NewEngine(ledger, materials.Options{}, logger.Nop())
	reads := store.Repos()
	reads.Garments = garmentsSinLectura{reads.Garments}
	uc := project.NewUseCase(store, reads, engine, audit.NopSink{}, "PRY", logger.Nop()).
		WithClock(func() time.Time { return fixedNow })

	out, err := uc.Create(context.Background(), tshirtRequest(100), nil)
	require.NoError(t, err, "el commit ya ocurrió; la respuesta no debe reportar fallo")

	assert.Equal(t, 1, store.Counts().Projects)
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(10)))
	require.Len(t, out.Project.Garments, 1)
	assert.Equal(t, 100, out.Project.Garments[0].TotalQuantity)
	require.Len(t, out.Project.Requirements, 1)
	assert.True(t, out.Project.Requirements[0].AutoQuantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Admin", out.Project.CurrentArea)
	require.Len(t, out.Project.Areas, 3)

	// La lectura posterior sí expone el fallo, sin tocar lo ya creado.
	_, err = uc.Get(context.Background(), out.Project.ID)
	require.Error(t, err)
	assert.Equal(t, 1, store.Counts().Projects)
}

func TestGet_NoExiste(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store, false)
	_, err := uc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
