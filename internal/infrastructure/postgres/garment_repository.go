package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var _ repository.GarmentRepository = (*GarmentRepo)(nil)

// GarmentRepo líneas de prenda y tallas.
type GarmentRepo struct {
	q Querier
}

// NewGarmentRepository construye el adaptador de prendas.
func NewGarmentRepository(q Querier) *GarmentRepo {
	return &GarmentRepo{q: q}
}

// Create inserta la línea y luego cada talla. Debe ejecutarse dentro de una transacción.
func (r *GarmentRepo) Create(ctx context.Context, g *entity.GarmentLine) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO garment_lines (project_id, garment_type_id, material_type_id, total_quantity,
			has_embroidery, has_print, design_note, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		g.ProjectID, g.GarmentTypeID, g.MaterialTypeID, g.TotalQuantity,
		g.HasEmbroidery, g.HasPrint, g.DesignNote, g.Position,
	).Scan(&g.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: tipo de prenda %d o material %d no existe",
				domain.ErrInvalidInput, g.GarmentTypeID, g.MaterialTypeID)
		}
		return fmt.Errorf("insert garment line: %w", err)
	}
	for i := range g.Sizes {
		s := &g.Sizes[i]
		s.GarmentLineID = g.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO size_distributions (garment_line_id, size, quantity)
			VALUES ($1, $2, $3)
			RETURNING id`, g.ID, s.Size, s.Quantity,
		).Scan(&s.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: talla %q repetida", domain.ErrInvalidInput, s.Size)
			}
			return fmt.Errorf("insert size distribution: %w", err)
		}
	}
	return nil
}

// ListByProject devuelve las líneas del proyecto con sus tallas.
func (r *GarmentRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.GarmentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, project_id, garment_type_id, material_type_id, total_quantity,
			has_embroidery, has_print, design_note, position
		FROM garment_lines WHERE project_id = $1
		ORDER BY position, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list garment lines: %w", err)
	}
	var lines []*entity.GarmentLine
	byID := map[int64]*entity.GarmentLine{}
	for rows.Next() {
		var g entity.GarmentLine
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.GarmentTypeID, &g.MaterialTypeID, &g.TotalQuantity,
			&g.HasEmbroidery, &g.HasPrint, &g.DesignNote, &g.Position); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan garment line: %w", err)
		}
		lines = append(lines, &g)
		byID[g.ID] = &g
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list garment lines: %w", err)
	}
	if len(lines) == 0 {
		return lines, nil
	}

	sizeRows, err := r.q.Query(ctx, `
		SELECT s.id, s.garment_line_id, s.size, s.quantity
		FROM size_distributions s
		JOIN garment_lines g ON g.id = s.garment_line_id
		WHERE g.project_id = $1
		ORDER BY s.id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	defer sizeRows.Close()
	for sizeRows.Next() {
		var s entity.SizeDistribution
		if err := sizeRows.Scan(&s.ID, &s.GarmentLineID, &s.Size, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		if g := byID[s.GarmentLineID]; g != nil {
			g.Sizes = append(g.Sizes, s)
		}
	}
	return lines, sizeRows.Err()
}
