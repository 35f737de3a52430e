package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// SupplyRepository insumos con stock.
type SupplyRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Supply, error)
	// GetForUpdate bloquea la fila del insumo (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Supply, error)
	// ListByMaterialType devuelve los insumos del tipo de material ordenados por ID ascendente.
	ListByMaterialType(ctx context.Context, materialTypeID int64) ([]*entity.Supply, error)
	// UpdateStock persiste stock, estado y updated_at.
	UpdateStock(ctx context.Context, supply *entity.Supply) error
}

// SupplyMovementRepository movimientos inmutables de trazabilidad de stock.
type SupplyMovementRepository interface {
	Create(ctx context.Context, movement *entity.SupplyMovement) error
	ListBySupply(ctx context.Context, supplyID int64, limit, offset int) ([]*entity.SupplyMovement, error)
}

// StockLocationRepository filas de stock por ubicación/proyecto/orden de compra.
type StockLocationRepository interface {
	Create(ctx context.Context, entry *entity.StockLocationEntry) error
	ListBySupply(ctx context.Context, supplyID int64) ([]*entity.StockLocationEntry, error)
}
