package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var (
	_ repository.MaterialConfigRepository      = (*MaterialConfigRepo)(nil)
	_ repository.MaterialRequirementRepository = (*MaterialRequirementRepo)(nil)
)

// MaterialConfigRepo reglas de consumo (tipo de prenda, tipo de material) -> cantidad por unidad.
type MaterialConfigRepo struct {
	q Querier
}

// NewMaterialConfigRepository construye el adaptador.
func NewMaterialConfigRepository(q Querier) *MaterialConfigRepo {
	return &MaterialConfigRepo{q: q}
}

// Get devuelve la regla o nil si no existe.
func (r *MaterialConfigRepo) Get(ctx context.Context, garmentTypeID, materialTypeID int64) (*entity.MaterialConfig, error) {
	var c entity.MaterialConfig
	err := r.q.QueryRow(ctx, `
		SELECT garment_type_id, material_type_id, quantity_per_unit, unit
		FROM material_configs
		WHERE garment_type_id = $1 AND material_type_id = $2`, garmentTypeID, materialTypeID,
	).Scan(&c.GarmentTypeID, &c.MaterialTypeID, &c.QuantityPerUnit, &c.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material config: %w", err)
	}
	return &c, nil
}

// MaterialRequirementRepo requerimientos de material por proyecto.
type MaterialRequirementRepo struct {
	q Querier
}

// NewMaterialRequirementRepository construye el adaptador.
func NewMaterialRequirementRepository(q Querier) *MaterialRequirementRepo {
	return &MaterialRequirementRepo{q: q}
}

// Create inserta un requerimiento.
func (r *MaterialRequirementRepo) Create(ctx context.Context, req *entity.MaterialRequirement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO material_requirements (project_id, garment_line_id, supply_id, kind, auto_quantity,
			manual_quantity, unit, stock_sufficient, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		req.ProjectID, req.GarmentLineID, req.SupplyID, req.Kind, req.AutoQuantity,
		req.ManualQuantity, req.Unit, req.StockSufficient, req.Note, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert material requirement: %w", err)
	}
	return nil
}

// ListByProject requerimientos del proyecto en orden de creación.
func (r *MaterialRequirementRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.MaterialRequirement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, project_id, garment_line_id, supply_id, kind, auto_quantity, manual_quantity,
			unit, stock_sufficient, note, created_at
		FROM material_requirements WHERE project_id = $1
		ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list material requirements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaterialRequirement
	for rows.Next() {
		var m entity.MaterialRequirement
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.GarmentLineID, &m.SupplyID, &m.Kind, &m.AutoQuantity,
			&m.ManualQuantity, &m.Unit, &m.StockSufficient, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan material requirement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteAutoByProject elimina los requerimientos AUTO del proyecto.
func (r *MaterialRequirementRepo) DeleteAutoByProject(ctx context.Context, projectID int64) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM material_requirements WHERE project_id = $1 AND kind = $2`,
		projectID, entity.MaterialKindAuto)
	if err != nil {
		return 0, fmt.Errorf("delete auto requirements: %w", err)
	}
	return tag.RowsAffected(), nil
}
