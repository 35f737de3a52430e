package supply_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/testutil"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func ledger() *supply.Ledger {
	return supply.NewLedgerWithClock(func() time.Time { return now })
}

func TestDeduct_PisoEnCero(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 30)

	ded, err := ledger().Deduct(context.Background(), store.Repos().Supplies, testutil.SupplyJersey, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.False(t, ded.Sufficient())
	assert.True(t, ded.Applied.Equal(decimal.NewFromInt(30)))

	sp := store.Supply(testutil.SupplyJersey)
	assert.True(t, sp.StockActual.IsZero())
	assert.Equal(t, entity.SupplyStateDepleted, sp.State)
	assert.Equal(t, now, sp.UpdatedAt)
}

func TestDeduct_Errores(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 30)
	l := ledger()

	_, err := l.Deduct(context.Background(), store.Repos().Supplies, testutil.SupplyJersey, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.Deduct(context.Background(), store.Repos().Supplies, 12345, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_TipoInvalido(t *testing.T) {
	store := testutil.NewStore()
	_, err := ledger().RecordMovement(context.Background(), store.Repos().Movements, supply.MovementInput{
		SupplyID: 1, Delta: decimal.NewFromInt(1), Kind: "SALIDA_MISTERIOSA",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err := ledger().RecordMovement(context.Background(), store.Repos().Movements, supply.MovementInput{
		SupplyID: 1, Delta: decimal.NewFromInt(1), Kind: entity.SupplyMovementIN,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.TransactionID)
}

func TestAdjustStock_RegistraDiferencia(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 0)
	uc := supply.NewUseCase(store, store.Repos(), ledger(), logger.Nop())
	actor := int64(5)

	out, err := uc.AdjustStock(context.Background(), testutil.SupplyJersey, &actor, dto.AdjustStockRequest{
		NewQuantity: decimal.NewFromInt(25), Note: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.SupplyStateAvailable), out.State)
	assert.False(t, out.LowStock)

	page, err := uc.ListMovements(context.Background(), testutil.SupplyJersey, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.SupplyMovementADJUSTMENT, page.Items[0].Kind)
	assert.True(t, page.Items[0].Delta.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 20, page.Page.Limit)

	out, err = uc.AdjustStock(context.Background(), testutil.SupplyJersey, &actor, dto.AdjustStockRequest{NewQuantity: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.True(t, out.LowStock, "3 <= mínimo 5")

	_, err = uc.AdjustStock(context.Background(), testutil.SupplyJersey, &actor, dto.AdjustStockRequest{NewQuantity: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AdjustStock(context.Background(), testutil.SupplyJersey, &actor, dto.AdjustStockRequest{NewQuantity: decimal.RequireFromString("3.00001")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, store.Supply(testutil.SupplyJersey).StockActual.Equal(decimal.NewFromInt(3)), "no se guarda redondeado")
}

func TestReceiveStock_CreaUbicacionYMovimiento(t *testing.T) {
	store := testutil.NewStore()
	testutil.SeedCatalog(store, 10)
	uc := supply.NewUseCase(store, store.Repos(), ledger(), logger.Nop())
	project := int64(44)

	out, err := uc.ReceiveStock(context.Background(), testutil.SupplyJersey, nil, dto.ReceiveStockRequest{
		LocationID: 3, Quantity: decimal.RequireFromString("12.5"), ProjectID: &project,
	})
	require.NoError(t, err)
	assert.True(t, out.StockActual.Equal(decimal.RequireFromString("22.5")))

	locs, err := uc.ListLocations(context.Background(), testutil.SupplyJersey)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, int64(3), locs[0].LocationID)
	assert.Equal(t, &project, locs[0].ProjectID)

	page, err := uc.ListMovements(context.Background(), testutil.SupplyJersey, dto.PageRequest{Limit: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.SupplyMovementIN, page.Items[0].Kind)

	_, err = uc.ReceiveStock(context.Background(), testutil.SupplyJersey, nil, dto.ReceiveStockRequest{LocationID: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ReceiveStock(context.Background(), testutil.SupplyJersey, nil, dto.ReceiveStockRequest{LocationID: 3, Quantity: decimal.RequireFromString("0.00005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ReceiveStock(context.Background(), 999, nil, dto.ReceiveStockRequest{LocationID: 3, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, store.Counts().Locations)
}

func TestGet_NoExiste(t *testing.T) {
	store := testutil.NewStore()
	uc := supply.NewUseCase(store, store.Repos(), ledger(), logger.Nop())
	_, err := uc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
