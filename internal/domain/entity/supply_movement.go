package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de insumo.
const (
	SupplyMovementIN         = "ENTRADA"
	SupplyMovementADJUSTMENT = "AJUSTE"
	SupplyMovementDELETION   = "ELIMINACION"
)

// SupplyMovement registro inmutable de trazabilidad de stock (ediciones manuales, entradas, bajas).
type SupplyMovement struct {
	ID            int64
	TransactionID string
	SupplyID      int64
	Kind          string
	Delta         decimal.Decimal // positivo entrada, negativo salida
	Note          string
	CreatedBy     *int64
	CreatedAt     time.Time
}
