package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyResponse insumo con su stock.
type SupplyResponse struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	MaterialTypeID *int64          `json:"material_type_id,omitempty"`
	Unit           string          `json:"unit"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	MinimumStock   decimal.Decimal `json:"minimum_stock"`
	State          string          `json:"state"`
	LocationID     *int64          `json:"location_id,omitempty"`
	LowStock       bool            `json:"low_stock"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AdjustStockRequest body para POST /api/supplies/:id/adjust (edición manual de stock).
type AdjustStockRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Note        string          `json:"note"`
}

// ReceiveStockRequest body para POST /api/supplies/:id/receive.
type ReceiveStockRequest struct {
	LocationID      int64           `json:"location_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProjectID       *int64          `json:"project_id,omitempty"`
	PurchaseOrderID *int64          `json:"purchase_order_id,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// SupplyMovementDTO movimiento de trazabilidad.
type SupplyMovementDTO struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Kind          string          `json:"kind"`
	Delta         decimal.Decimal `json:"delta"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     *int64          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StockLocationDTO fila de stock por ubicación.
type StockLocationDTO struct {
	ID              int64           `json:"id"`
	LocationID      int64           `json:"location_id"`
	ProjectID       *int64          `json:"project_id,omitempty"`
	PurchaseOrderID *int64          `json:"purchase_order_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SupplyMovementListResponse listado paginado de movimientos.
type SupplyMovementListResponse struct {
	Items []SupplyMovementDTO `json:"items"`
	Page  PageResponse        `json:"page"`
}
