package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialKind origen de un requerimiento de material.
type MaterialKind string

const (
	MaterialKindAuto   MaterialKind = "AUTO"   // derivado de MaterialConfig
	MaterialKindManual MaterialKind = "MANUAL" // indicado por el usuario (hilos, accesorios)
)

// MaterialConfig regla de consumo: (tipo de prenda, tipo de material) -> cantidad por unidad.
type MaterialConfig struct {
	GarmentTypeID   int64
	MaterialTypeID  int64
	QuantityPerUnit decimal.Decimal
	Unit            string
}

// MaterialRequirement requerimiento de material de un proyecto, opcionalmente ligado a una línea de prenda.
// StockSufficient es una foto tomada al descontar; no se reevalúa después.
type MaterialRequirement struct {
	ID              int64
	ProjectID       int64
	GarmentLineID   *int64
	SupplyID        int64
	Kind            MaterialKind
	AutoQuantity    decimal.Decimal
	ManualQuantity  *decimal.Decimal
	Unit            string
	StockSufficient bool
	Note            string
	CreatedAt       time.Time
}

// Quantity cantidad efectiva: la manual si existe, si no la calculada.
func (r *MaterialRequirement) Quantity() decimal.Decimal {
	if r.ManualQuantity != nil {
		return *r.ManualQuantity
	}
	return r.AutoQuantity
}
