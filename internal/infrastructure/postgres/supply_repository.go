package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var (
	_ repository.SupplyRepository         = (*SupplyRepo)(nil)
	_ repository.SupplyMovementRepository = (*SupplyMovementRepo)(nil)
	_ repository.StockLocationRepository  = (*StockLocationRepo)(nil)
)

// SupplyRepo insumos y su stock agregado.
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador de insumos.
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

const supplyColumns = `id, code, name, material_type_id, unit, stock_actual, minimum_stock, state, location_id, updated_at`

func scanSupply(row pgx.Row) (*entity.Supply, error) {
	var s entity.Supply
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.MaterialTypeID, &s.Unit, &s.StockActual,
		&s.MinimumStock, &s.State, &s.LocationID, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un insumo.
func (r *SupplyRepo) GetByID(ctx context.Context, id int64) (*entity.Supply, error) {
	s, err := scanSupply(r.q.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el insumo y bloquea la fila (SELECT FOR UPDATE).
func (r *SupplyRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Supply, error) {
	s, err := scanSupply(r.q.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply for update: %w", err)
	}
	return s, nil
}

// ListByMaterialType insumos del tipo de material, por ID ascendente.
func (r *SupplyRepo) ListByMaterialType(ctx context.Context, materialTypeID int64) ([]*entity.Supply, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+supplyColumns+` FROM supplies WHERE material_type_id = $1 ORDER BY id`, materialTypeID)
	if err != nil {
		return nil, fmt.Errorf("list supplies by material type: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStock persiste stock, estado y updated_at.
func (r *SupplyRepo) UpdateStock(ctx context.Context, s *entity.Supply) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE supplies SET stock_actual = $2, state = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.StockActual, s.State, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supply stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: insumo %d", domain.ErrNotFound, s.ID)
	}
	return nil
}

// SupplyMovementRepo movimientos de trazabilidad.
type SupplyMovementRepo struct {
	q Querier
}

// NewSupplyMovementRepository construye el adaptador de movimientos.
func NewSupplyMovementRepository(q Querier) *SupplyMovementRepo {
	return &SupplyMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *SupplyMovementRepo) Create(ctx context.Context, m *entity.SupplyMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO supply_movements (transaction_id, supply_id, kind, delta, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		m.TransactionID, m.SupplyID, m.Kind, m.Delta, m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert supply movement: %w", err)
	}
	return nil
}

// ListBySupply movimientos del insumo, más recientes primero.
func (r *SupplyMovementRepo) ListBySupply(ctx context.Context, supplyID int64, limit, offset int) ([]*entity.SupplyMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, supply_id, kind, delta, note, created_by, created_at
		FROM supply_movements WHERE supply_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, supplyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list supply movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.SupplyMovement{}
	for rows.Next() {
		var m entity.SupplyMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.SupplyID, &m.Kind, &m.Delta, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supply movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// StockLocationRepo stock por ubicación.
type StockLocationRepo struct {
	q Querier
}

// NewStockLocationRepository construye el adaptador.
func NewStockLocationRepository(q Querier) *StockLocationRepo {
	return &StockLocationRepo{q: q}
}

// Create inserta una fila de stock por ubicación.
func (r *StockLocationRepo) Create(ctx context.Context, e *entity.StockLocationEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_location_entries (supply_id, location_id, project_id, purchase_order_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.SupplyID, e.LocationID, e.ProjectID, e.PurchaseOrderID, e.Quantity, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: ubicación o proyecto inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock location entry: %w", err)
	}
	return nil
}

// ListBySupply filas de ubicación del insumo.
func (r *StockLocationRepo) ListBySupply(ctx context.Context, supplyID int64) ([]*entity.StockLocationEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, supply_id, location_id, project_id, purchase_order_id, quantity, created_at
		FROM stock_location_entries WHERE supply_id = $1
		ORDER BY id`, supplyID)
	if err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLocationEntry
	for rows.Next() {
		var e entity.StockLocationEntry
		if err := rows.Scan(&e.ID, &e.SupplyID, &e.LocationID, &e.ProjectID, &e.PurchaseOrderID, &e.Quantity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
