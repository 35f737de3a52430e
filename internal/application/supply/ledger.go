package supply

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

// Ledger muta stock y estado de insumos usando los repositorios del caller (misma transacción).
// No aplica políticas de negocio: el motor de materiales decide qué y cuánto descontar.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger con el reloj del sistema.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// NewLedgerWithClock construye el ledger con un reloj fijo (tests).
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}

// Deduction resultado de un descuento.
type Deduction struct {
	Supply    *entity.Supply
	Before    decimal.Decimal // stock antes de descontar
	Requested decimal.Decimal
	Applied   decimal.Decimal // lo efectivamente descontado (<= Requested)
}

// Sufficient indica si había stock para cubrir lo solicitado al momento del descuento.
func (d Deduction) Sufficient() bool {
	return d.Before.GreaterThanOrEqual(d.Requested)
}

// Deduct bloquea la fila del insumo (SELECT FOR UPDATE), resta quantity y persiste.
// No valida el stock antes de restar: un sobre-descuento deja el insumo en 0 y AGOTADO.
func (l *Ledger) Deduct(ctx context.Context, supplies repository.SupplyRepository, supplyID int64, quantity decimal.Decimal) (*Deduction, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad a descontar negativa", domain.ErrInvalidInput)
	}
	s, err := supplies.GetForUpdate(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: insumo %d", domain.ErrNotFound, supplyID)
	}
	before := s.StockActual
	applied := s.Deduct(quantity, l.now())
	if err := supplies.UpdateStock(ctx, s); err != nil {
		return nil, err
	}
	return &Deduction{Supply: s, Before: before, Requested: quantity, Applied: applied}, nil
}

// MovementInput datos de un movimiento de trazabilidad.
type MovementInput struct {
	SupplyID      int64
	Delta         decimal.Decimal
	Kind          string
	Note          string
	ActorID       *int64
	TransactionID string
}

// RecordMovement agrega una fila inmutable de movimiento. Independiente de Deduct:
// lo usan los ajustes de stock hechos fuera del motor de materiales.
func (l *Ledger) RecordMovement(ctx context.Context, movements repository.SupplyMovementRepository, in MovementInput) (*entity.SupplyMovement, error) {
	switch in.Kind {
	case entity.SupplyMovementIN, entity.SupplyMovementADJUSTMENT, entity.SupplyMovementDELETION:
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Kind)
	}
	txID := in.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	mov := &entity.SupplyMovement{
		TransactionID: txID,
		SupplyID:      in.SupplyID,
		Kind:          in.Kind,
		Delta:         in.Delta,
		Note:          in.Note,
		CreatedBy:     in.ActorID,
		CreatedAt:     l.now(),
	}
	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
