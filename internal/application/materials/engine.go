package materials

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// GarmentDemand línea de prenda a calcular. LineID es nil en la vista previa (aún no persistida).
type GarmentDemand struct {
	Index          int
	LineID         *int64
	GarmentTypeID  int64
	MaterialTypeID int64
	Quantity       int
}

// ManualDemand material manual contra un insumo explícito.
type ManualDemand struct {
	SupplyID     int64
	Quantity     decimal.Decimal
	GarmentIndex *int
	LineID       *int64
	Note         string
}

// Options políticas del motor.
type Options struct {
	Policy SelectionPolicy
	// BlockOnInsufficientStock convierte STOCK_INSUFICIENTE en bloqueante.
	BlockOnInsufficientStock bool
}

// Engine calcula requerimientos de material, los compara contra el stock y descuenta al confirmar.
type Engine struct {
	ledger *supply.Ledger
	opts   Options
	log    *logger.Logger
}

// NewEngine construye el motor. Sin política explícita usa LowestIDPolicy.
func NewEngine(ledger *supply.Ledger, opts Options, log *logger.Logger) *Engine {
	if opts.Policy == nil {
		opts.Policy = LowestIDPolicy{}
	}
	return &Engine{ledger: ledger, opts: opts, log: log.Component("materials")}
}

// item requerimiento resuelto contra un insumo.
type item struct {
	kind         entity.MaterialKind
	garmentIndex *int
	lineID       *int64
	supply       *entity.Supply
	required     decimal.Decimal
	unit         string
	note         string
}

// plan resultado de resolver reglas e insumos, antes de comparar stock.
type plan struct {
	items  []item
	alerts []dto.MaterialAlertDTO
	fatal  bool
}

// ValidateManual rechaza materiales manuales mal formados antes de cualquier escritura.
// Una cantidad con más de entity.QuantityScale decimales se rechaza en vez de redondearse al guardar.
func ValidateManual(manual []ManualDemand) error {
	for i, m := range manual {
		if m.SupplyID <= 0 {
			return fmt.Errorf("%w: material manual #%d sin insumo", domain.ErrInvalidInput, i+1)
		}
		if !m.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: material manual #%d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if !entity.FitsQuantityScale(m.Quantity) {
			return fmt.Errorf("%w: material manual #%d admite hasta %d decimales", domain.ErrInvalidInput, i+1, entity.QuantityScale)
		}
	}
	return nil
}

// resolve busca la regla de consumo y el insumo de cada línea. Solo lectura.
func (e *Engine) resolve(ctx context.Context, r repository.Repos, garments []GarmentDemand, manual []ManualDemand) (*plan, error) {
	p := &plan{}
	for _, g := range garments {
		idx := g.Index
		cfg, err := r.Configs.Get(ctx, g.GarmentTypeID, g.MaterialTypeID)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			p.alerts = append(p.alerts, dto.MaterialAlertDTO{
				Type: dto.AlertAdvisory,
				Message: fmt.Sprintf("prenda #%d: no hay regla de consumo para tipo de prenda %d y material %d; se omite",
					idx+1, g.GarmentTypeID, g.MaterialTypeID),
				GarmentIndex: &idx,
			})
			continue
		}
		candidates, err := r.Supplies.ListByMaterialType(ctx, g.MaterialTypeID)
		if err != nil {
			return nil, err
		}
		chosen := e.opts.Policy.Select(candidates)
		if chosen == nil {
			p.fatal = true
			p.alerts = append(p.alerts, dto.MaterialAlertDTO{
				Type:         dto.AlertOutOfStockCatalog,
				Message:      fmt.Sprintf("prenda #%d: no existe ningún insumo del material %d", idx+1, g.MaterialTypeID),
				GarmentIndex: &idx,
				Blocking:     true,
			})
			continue
		}
		p.items = append(p.items, item{
			kind:         entity.MaterialKindAuto,
			garmentIndex: &idx,
			lineID:       g.LineID,
			supply:       chosen,
			required:     decimal.NewFromInt(int64(g.Quantity)).Mul(cfg.QuantityPerUnit),
			unit:         cfg.Unit,
		})
	}

	for _, m := range manual {
		s, err := r.Supplies.GetByID(ctx, m.SupplyID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			id := m.SupplyID
			p.alerts = append(p.alerts, dto.MaterialAlertDTO{
				Type:     dto.AlertAdvisory,
				Message:  fmt.Sprintf("material manual: el insumo %d no existe; se omite", m.SupplyID),
				SupplyID: &id,
			})
			continue
		}
		p.items = append(p.items, item{
			kind:         entity.MaterialKindManual,
			garmentIndex: m.GarmentIndex,
			lineID:       m.LineID,
			supply:       s,
			required:     m.Quantity,
			unit:         s.Unit,
			note:         m.Note,
		})
	}
	return p, nil
}

func (e *Engine) insufficientAlert(it item, available decimal.Decimal) dto.MaterialAlertDTO {
	id := it.supply.ID
	return dto.MaterialAlertDTO{
		Type: dto.AlertInsufficientStock,
		Message: fmt.Sprintf("%s: se requieren %s %s y hay %s disponibles",
			it.supply.Name, it.required.String(), it.unit, available.String()),
		GarmentIndex: it.garmentIndex,
		SupplyID:     &id,
		// Los materiales manuales siempre son solo advertencia.
		Blocking: e.opts.BlockOnInsufficientStock && it.kind == entity.MaterialKindAuto,
	}
}

// CalculatePreview calcula requerimientos y alertas sin escribir nada.
// CanCreate es false solo si alguna alerta es bloqueante (tipo de material sin insumos en catálogo,
// o stock insuficiente cuando la política lo exige).
func (e *Engine) CalculatePreview(ctx context.Context, r repository.Repos, garments []GarmentDemand, manual []ManualDemand) (*dto.MaterialsPreviewResponse, error) {
	if err := ValidateManual(manual); err != nil {
		return nil, err
	}
	p, err := e.resolve(ctx, r, garments, manual)
	if err != nil {
		return nil, err
	}

	// Varias líneas pueden consumir el mismo insumo: se compara contra lo que va quedando.
	remaining := make(map[int64]decimal.Decimal)
	resp := &dto.MaterialsPreviewResponse{Lines: []dto.MaterialLineDTO{}, Alerts: p.alerts}
	for _, it := range p.items {
		available, ok := remaining[it.supply.ID]
		if !ok {
			available = it.supply.StockActual
		}
		sufficient := available.GreaterThanOrEqual(it.required)
		if !sufficient {
			resp.Alerts = append(resp.Alerts, e.insufficientAlert(it, available))
		}
		left := available.Sub(it.required)
		if left.IsNegative() {
			left = decimal.Zero
		}
		remaining[it.supply.ID] = left

		resp.Lines = append(resp.Lines, dto.MaterialLineDTO{
			GarmentIndex: it.garmentIndex,
			SupplyID:     it.supply.ID,
			SupplyName:   it.supply.Name,
			Kind:         string(it.kind),
			Required:     it.required,
			Unit:         it.unit,
			Available:    available,
			Sufficient:   sufficient,
		})
	}
	resp.CanCreate = !hasBlocking(resp.Alerts)
	if resp.Alerts == nil {
		resp.Alerts = []dto.MaterialAlertDTO{}
	}
	return resp, nil
}

// CommitResult requerimientos creados y alertas no bloqueantes.
type CommitResult struct {
	Requirements []*entity.MaterialRequirement
	Alerts       []dto.MaterialAlertDTO
}

// CommitForProject resuelve, crea los requerimientos y descuenta stock usando los repos de la transacción
// del caller. Si hay alertas bloqueantes retorna error y el caller debe hacer rollback.
func (e *Engine) CommitForProject(ctx context.Context, r repository.Repos, projectID int64, garments []GarmentDemand, manual []ManualDemand) (*CommitResult, error) {
	if err := ValidateManual(manual); err != nil {
		return nil, err
	}
	p, err := e.resolve(ctx, r, garments, manual)
	if err != nil {
		return nil, err
	}
	if p.fatal {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStockCatalog, firstBlocking(p.alerts))
	}

	// Bloqueo de insumos en orden ascendente de ID: dos creaciones concurrentes nunca se cruzan.
	ids := make([]int64, 0, len(p.items))
	seen := make(map[int64]bool)
	for _, it := range p.items {
		if !seen[it.supply.ID] {
			seen[it.supply.ID] = true
			ids = append(ids, it.supply.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if _, err := r.Supplies.GetForUpdate(ctx, id); err != nil {
			return nil, err
		}
	}

	res := &CommitResult{Alerts: p.alerts}
	for _, it := range p.items {
		ded, err := e.ledger.Deduct(ctx, r.Supplies, it.supply.ID, it.required)
		if err != nil {
			return nil, err
		}
		if !ded.Sufficient() {
			alert := e.insufficientAlert(it, ded.Before)
			if alert.Blocking {
				return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, alert.Message)
			}
			res.Alerts = append(res.Alerts, alert)
			e.log.Project(projectID).Warn().Int64("supply_id", it.supply.ID).
				Str("required", it.required.String()).Str("available", ded.Before.String()).
				Msg("stock insuficiente, se continúa con alerta")
		}

		req := &entity.MaterialRequirement{
			ProjectID:       projectID,
			GarmentLineID:   it.lineID,
			SupplyID:        it.supply.ID,
			Kind:            it.kind,
			Unit:            it.unit,
			StockSufficient: ded.Sufficient(),
			Note:            it.note,
			CreatedAt:       ded.Supply.UpdatedAt,
		}
		if it.kind == entity.MaterialKindManual {
			q := it.required
			req.ManualQuantity = &q
		} else {
			req.AutoQuantity = it.required
		}
		if err := r.Requirements.Create(ctx, req); err != nil {
			return nil, err
		}
		res.Requirements = append(res.Requirements, req)
	}
	return res, nil
}

// RecomputeAuto borra los requerimientos AUTO del proyecto y los vuelve a calcular con sus prendas actuales.
// El stock descontado por las filas borradas NO se devuelve.
func (e *Engine) RecomputeAuto(ctx context.Context, r repository.Repos, projectID int64) (int64, *CommitResult, error) {
	deleted, err := r.Requirements.DeleteAutoByProject(ctx, projectID)
	if err != nil {
		return 0, nil, err
	}
	lines, err := r.Garments.ListByProject(ctx, projectID)
	if err != nil {
		return 0, nil, err
	}
	res, err := e.CommitForProject(ctx, r, projectID, DemandsFromLines(lines), nil)
	if err != nil {
		return 0, nil, err
	}
	return deleted, res, nil
}

// DemandsFromLines convierte líneas persistidas en demandas de cálculo.
func DemandsFromLines(lines []*entity.GarmentLine) []GarmentDemand {
	out := make([]GarmentDemand, 0, len(lines))
	for _, l := range lines {
		id := l.ID
		out = append(out, GarmentDemand{
			Index:          l.Position,
			LineID:         &id,
			GarmentTypeID:  l.GarmentTypeID,
			MaterialTypeID: l.MaterialTypeID,
			Quantity:       l.TotalQuantity,
		})
	}
	return out
}

func hasBlocking(alerts []dto.MaterialAlertDTO) bool {
	for _, a := range alerts {
		if a.Blocking {
			return true
		}
	}
	return false
}

func firstBlocking(alerts []dto.MaterialAlertDTO) string {
	for _, a := range alerts {
		if a.Blocking {
			return a.Message
		}
	}
	return ""
}
