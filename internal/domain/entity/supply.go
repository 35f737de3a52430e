package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyState estado del ciclo de vida de un insumo.
type SupplyState string

const (
	SupplyStateAvailable SupplyState = "DISPONIBLE"
	SupplyStateInUse     SupplyState = "EN_USO"
	SupplyStateToAssign  SupplyState = "POR_ASIGNAR"
	SupplyStateDepleted  SupplyState = "AGOTADO"
)

// Supply insumo con stock (tela, hilo, botones...).
type Supply struct {
	ID             int64
	Code           string
	Name           string
	MaterialTypeID *int64
	Unit           string
	StockActual    decimal.Decimal
	MinimumStock   decimal.Decimal
	State          SupplyState
	LocationID     *int64
	UpdatedAt      time.Time
}

// Deduct descuenta quantity del stock sin validar antes de restar.
// Si el resultado es <= 0 se fija en 0 y pasa a AGOTADO; si no, queda EN_USO.
// Devuelve la cantidad efectivamente descontada (menor que quantity si se agotó).
func (s *Supply) Deduct(quantity decimal.Decimal, now time.Time) decimal.Decimal {
	before := s.StockActual
	s.StockActual = s.StockActual.Sub(quantity)
	if s.StockActual.LessThanOrEqual(decimal.Zero) {
		s.StockActual = decimal.Zero
		s.State = SupplyStateDepleted
	} else {
		s.State = SupplyStateInUse
	}
	s.UpdatedAt = now
	return before.Sub(s.StockActual)
}

// SetStock fija el stock (edición manual o entrada). Un insumo agotado que recibe stock vuelve a DISPONIBLE;
// en otro caso el estado se conserva salvo que el stock quede en 0.
func (s *Supply) SetStock(quantity decimal.Decimal, now time.Time) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		s.StockActual = decimal.Zero
		s.State = SupplyStateDepleted
	} else {
		s.StockActual = quantity
		if s.State == SupplyStateDepleted || s.State == "" {
			s.State = SupplyStateAvailable
		}
	}
	s.UpdatedAt = now
}

// BelowMinimum indica si el stock está en o por debajo del mínimo configurado.
func (s *Supply) BelowMinimum() bool {
	return s.StockActual.LessThanOrEqual(s.MinimumStock)
}

// QuantityScale decimales que guardan las columnas de cantidad (NUMERIC(14,4)).
const QuantityScale = 4

// FitsQuantityScale indica si q se guarda sin redondeo. Los ceros a la derecha no cuentan.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}
