package supply

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/ports"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// UseCase operaciones de stock de insumos fuera del motor de materiales
// (consulta, ajuste manual, entradas por ubicación).
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos // lecturas fuera de transacción
	ledger   *Ledger
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, ledger *Ledger, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, ledger: ledger, log: log.Component("supply")}
}

// Get obtiene un insumo.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.SupplyResponse, error) {
	s, err := uc.repos.Supplies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return ToSupplyResponse(s), nil
}

// AdjustStock fija el stock de un insumo (edición manual) y registra un movimiento AJUSTE con la diferencia.
func (uc *UseCase) AdjustStock(ctx context.Context, supplyID int64, actorID *int64, in dto.AdjustStockRequest) (*dto.SupplyResponse, error) {
	if in.NewQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if !entity.FitsQuantityScale(in.NewQuantity) {
		return nil, fmt.Errorf("%w: el stock admite hasta %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	var out *entity.Supply
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := r.Supplies.GetForUpdate(ctx, supplyID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		delta := in.NewQuantity.Sub(s.StockActual)
		s.SetStock(in.NewQuantity, uc.ledger.now())
		if err := r.Supplies.UpdateStock(ctx, s); err != nil {
			return err
		}
		if _, err := uc.ledger.RecordMovement(ctx, r.Movements, MovementInput{
			SupplyID: s.ID,
			Delta:    delta,
			Kind:     entity.SupplyMovementADJUSTMENT,
			Note:     in.Note,
			ActorID:  actorID,
		}); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("supply_id", supplyID).Str("stock", out.StockActual.String()).Msg("stock ajustado")
	return ToSupplyResponse(out), nil
}

// ReceiveStock registra una entrada a una ubicación: fila de stock por ubicación, incremento del stock
// agregado y movimiento ENTRADA, todo en una transacción.
func (uc *UseCase) ReceiveStock(ctx context.Context, supplyID int64, actorID *int64, in dto.ReceiveStockRequest) (*dto.SupplyResponse, error) {
	if in.LocationID <= 0 || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: ubicación y cantidad positiva son obligatorias", domain.ErrInvalidInput)
	}
	if !entity.FitsQuantityScale(in.Quantity) {
		return nil, fmt.Errorf("%w: la cantidad admite hasta %d decimales", domain.ErrInvalidInput, entity.QuantityScale)
	}
	txID := uuid.New().String()
	var out *entity.Supply
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := r.Supplies.GetForUpdate(ctx, supplyID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		now := uc.ledger.now()
		s.SetStock(s.StockActual.Add(in.Quantity), now)
		if err := r.Supplies.UpdateStock(ctx, s); err != nil {
			return err
		}
		if err := r.Locations.Create(ctx, &entity.StockLocationEntry{
			SupplyID:        s.ID,
			LocationID:      in.LocationID,
			ProjectID:       in.ProjectID,
			PurchaseOrderID: in.PurchaseOrderID,
			Quantity:        in.Quantity,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		if _, err := uc.ledger.RecordMovement(ctx, r.Movements, MovementInput{
			SupplyID:      s.ID,
			Delta:         in.Quantity,
			Kind:          entity.SupplyMovementIN,
			Note:          in.Note,
			ActorID:       actorID,
			TransactionID: txID,
		}); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToSupplyResponse(out), nil
}

// ListMovements lista los movimientos de un insumo (más recientes primero).
func (uc *UseCase) ListMovements(ctx context.Context, supplyID int64, page dto.PageRequest) (*dto.SupplyMovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Movements.ListBySupply(ctx, supplyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyMovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, dto.SupplyMovementDTO{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			Kind:          m.Kind,
			Delta:         m.Delta,
			Note:          m.Note,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return &dto.SupplyMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListLocations lista las filas de stock por ubicación de un insumo.
func (uc *UseCase) ListLocations(ctx context.Context, supplyID int64) ([]dto.StockLocationDTO, error) {
	list, err := uc.repos.Locations.ListBySupply(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLocationDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.StockLocationDTO{
			ID:              e.ID,
			LocationID:      e.LocationID,
			ProjectID:       e.ProjectID,
			PurchaseOrderID: e.PurchaseOrderID,
			Quantity:        e.Quantity,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out, nil
}

// ToSupplyResponse convierte la entidad al DTO de respuesta.
func ToSupplyResponse(s *entity.Supply) *dto.SupplyResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplyResponse{
		ID:             s.ID,
		Code:           s.Code,
		Name:           s.Name,
		MaterialTypeID: s.MaterialTypeID,
		Unit:           s.Unit,
		StockActual:    s.StockActual,
		MinimumStock:   s.MinimumStock,
		State:          string(s.State),
		LocationID:     s.LocationID,
		LowStock:       s.BelowMinimum(),
		UpdatedAt:      s.UpdatedAt,
	}
}
