package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLocationEntry cantidad de un insumo en una ubicación, opcionalmente ligada a un proyecto u orden de compra.
// Solo es trazabilidad: los descuentos siempre operan sobre Supply.StockActual.
type StockLocationEntry struct {
	ID              int64
	SupplyID        int64
	LocationID      int64
	ProjectID       *int64
	PurchaseOrderID *int64
	Quantity        decimal.Decimal
	CreatedAt       time.Time
}
