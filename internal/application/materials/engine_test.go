package materials_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/testutil"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

func newEngine(block bool) *materials.Engine {
	ledger := supply.NewLedgerWithClock(func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) })
	return materials.NewEngine(ledger, materials.Options{BlockOnInsufficientStock: block}, logger.Nop())
}

func jersey(qty int) dto.GarmentMaterialInput {
	return dto.GarmentMaterialInput{GarmentTypeID: testutil.GarmentTShirt, MaterialTypeID: testutil.MaterialJersey, TotalQuantity: qty}
}

func TestLowestIDPolicy(t *testing.T) {
	p := materials.LowestIDPolicy{}
	assert.Nil(t, p.Select(nil))
	got := p.Select([]*entity.Supply{{ID: 9}, {ID: 3}, {ID: 5}})
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
}

func TestPreview_SoloLecturaConStockSuficiente(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)
	uc := materials.NewUseCase(store, store.Repos(), newEngine(false), audit.NopSink{}, logger.Nop())

	out, err := uc.Preview(context.Background(), dto.MaterialsPreviewRequest{Garments: []dto.GarmentMaterialInput{jersey(100)}})
	require.NoError(t, err)
	assert.True(t, out.CanCreate)
	assert.Empty(t, out.Alerts)
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].Required.Equal(decimal.NewFromInt(50)))
	assert.True(t, out.Lines[0].Sufficient)
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(60)), "la vista previa no descuenta")
}

// Dos líneas contra el mismo insumo: la segunda se compara contra lo que queda.
func TestPreview_SuficienciaAcumulada(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)

	out, err := newEngine(false).CalculatePreview(context.Background(), store.Repos(),
		[]materials.GarmentDemand{
			{Index: 0, GarmentTypeID: testutil.GarmentTShirt, MaterialTypeID: testutil.MaterialJersey, Quantity: 80},
			{Index: 1, GarmentTypeID: testutil.GarmentTShirt, MaterialTypeID: testutil.MaterialJersey, Quantity: 80},
		}, nil)
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.True(t, out.Lines[0].Sufficient)
	assert.False(t, out.Lines[1].Sufficient)
	assert.True(t, out.Lines[1].Available.Equal(decimal.NewFromInt(20)))
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, dto.AlertInsufficientStock, out.Alerts[0].Type)
	assert.True(t, out.CanCreate, "stock insuficiente no bloquea por defecto")
}

func TestPreview_BloqueantesYAdvertencias(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 10)

	in := dto.MaterialsPreviewRequest{Garments: []dto.GarmentMaterialInput{
		jersey(100),
		// sin regla de consumo
		{GarmentTypeID: 99, MaterialTypeID: testutil.MaterialJersey, TotalQuantity: 5},
		// tipo de material sin insumos
		{GarmentTypeID: testutil.GarmentTShirt, MaterialTypeID: testutil.MaterialWithoutItem, TotalQuantity: 5},
	}}

	uc := materials.NewUseCase(store, store.Repos(), newEngine(false), audit.NopSink{}, logger.Nop())
	out, err := uc.Preview(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.CanCreate)
	require.Len(t, out.Alerts, 3)

	types := map[string]bool{}
	for _, a := range out.Alerts {
		types[a.Type] = a.Blocking
	}
	assert.False(t, types[dto.AlertAdvisory])
	assert.True(t, types[dto.AlertOutOfStockCatalog])
	assert.False(t, types[dto.AlertInsufficientStock])

	blocking := materials.NewUseCase(store, store.Repos(), newEngine(true), audit.NopSink{}, logger.Nop())
	out, err = blocking.Preview(context.Background(), dto.MaterialsPreviewRequest{Garments: []dto.GarmentMaterialInput{jersey(100)}})
	require.NoError(t, err)
	assert.False(t, out.CanCreate)
}

func TestPreview_ManualEsSoloAdvertencia(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 60)

	out, err := newEngine(true).CalculatePreview(context.Background(), store.Repos(), nil, []materials.ManualDemand{
		{SupplyID: testutil.SupplyThread, Quantity: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	require.Len(t, out.Alerts, 1)
	assert.False(t, out.Alerts[0].Blocking)
	assert.True(t, out.CanCreate)
}

func TestPreview_ManualInvalido(t *testing.T) {
	store := testutil.NewStore()
	_, err := newEngine(false).CalculatePreview(context.Background(), store.Repos(), nil, []materials.ManualDemand{
		{SupplyID: testutil.SupplyThread, Quantity: decimal.Zero},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	uc := materials.NewUseCase(store, store.Repos(), newEngine(false), audit.NopSink{}, logger.Nop())
	_, err = uc.Preview(context.Background(), dto.MaterialsPreviewRequest{Garments: []dto.GarmentMaterialInput{jersey(0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateManual_Escala(t *testing.T) {
	ok := []materials.ManualDemand{{SupplyID: testutil.SupplyThread, Quantity: decimal.RequireFromString("1.2345")}}
	assert.NoError(t, materials.ValidateManual(ok))

	ok[0].Quantity = decimal.RequireFromString("2.50000")
	assert.NoError(t, materials.ValidateManual(ok), "los ceros a la derecha no cuentan")

	bad := []materials.ManualDemand{{SupplyID: testutil.SupplyThread, Quantity: decimal.RequireFromString("1.23456")}}
	assert.ErrorIs(t, materials.ValidateManual(bad), domain.ErrInvalidInput)
}
