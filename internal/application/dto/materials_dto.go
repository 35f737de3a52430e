package dto

import "github.com/shopspring/decimal"

// Tipos de alerta del cálculo de materiales.
const (
	AlertAdvisory          = "ADVERTENCIA"            // sin regla de consumo u observación no bloqueante
	AlertInsufficientStock = "STOCK_INSUFICIENTE"     // hay insumo pero no alcanza
	AlertOutOfStockCatalog = "SIN_INSUMO_EN_CATALOGO" // no existe insumo del tipo requerido (bloqueante)
)

// GarmentMaterialInput datos de una línea de prenda relevantes para el cálculo.
type GarmentMaterialInput struct {
	GarmentTypeID  int64 `json:"garment_type_id"`
	MaterialTypeID int64 `json:"material_type_id"`
	TotalQuantity  int   `json:"total_quantity"`
}

// ManualMaterialRequest material indicado directamente por el usuario (hilos, accesorios).
type ManualMaterialRequest struct {
	SupplyID     int64           `json:"supply_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	GarmentIndex *int            `json:"garment_index,omitempty"` // posición de la prenda en el request
	Note         string          `json:"note,omitempty"`
}

// MaterialsPreviewRequest body para POST /api/projects/materials/preview.
type MaterialsPreviewRequest struct {
	Garments        []GarmentMaterialInput  `json:"garments"`
	ManualMaterials []ManualMaterialRequest `json:"manual_materials"`
}

// MaterialLineDTO línea calculada (requerimiento ya resuelto contra un insumo).
type MaterialLineDTO struct {
	GarmentIndex *int            `json:"garment_index,omitempty"`
	SupplyID     int64           `json:"supply_id"`
	SupplyName   string          `json:"supply_name"`
	Kind         string          `json:"kind"`
	Required     decimal.Decimal `json:"required"`
	Unit         string          `json:"unit"`
	Available    decimal.Decimal `json:"available"` // stock restante antes de esta línea
	Sufficient   bool            `json:"sufficient"`
}

// MaterialAlertDTO alerta del cálculo.
type MaterialAlertDTO struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	GarmentIndex *int   `json:"garment_index,omitempty"`
	SupplyID     *int64 `json:"supply_id,omitempty"`
	Blocking     bool   `json:"blocking"`
}

// MaterialsPreviewResponse resultado de CalculatePreview.
type MaterialsPreviewResponse struct {
	Lines     []MaterialLineDTO  `json:"lines"`
	Alerts    []MaterialAlertDTO `json:"alerts"`
	CanCreate bool               `json:"can_create"`
}

// MaterialRequirementDTO requerimiento persistido.
type MaterialRequirementDTO struct {
	ID              int64            `json:"id"`
	GarmentLineID   *int64           `json:"garment_line_id,omitempty"`
	SupplyID        int64            `json:"supply_id"`
	Kind            string           `json:"kind"`
	AutoQuantity    decimal.Decimal  `json:"auto_quantity"`
	ManualQuantity  *decimal.Decimal `json:"manual_quantity,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"` // manual si existe, si no la calculada
	Unit            string           `json:"unit"`
	StockSufficient bool             `json:"stock_sufficient"`
	Note            string           `json:"note,omitempty"`
}

// RecomputeMaterialsResponse resultado de recalcular materiales AUTO.
type RecomputeMaterialsResponse struct {
	ProjectID    int64                    `json:"project_id"`
	Deleted      int64                    `json:"deleted"`
	Requirements []MaterialRequirementDTO `json:"requirements"`
	Alerts       []MaterialAlertDTO       `json:"alerts"`
}
