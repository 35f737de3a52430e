package materials

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/ports"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// UseCase expone el motor de materiales hacia los handlers: vista previa, recálculo y consulta.
type UseCase struct {
	txRunner ports.TxRunner
	repos    repository.Repos
	engine   *Engine
	audit    audit.Sink
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, engine *Engine, sink audit.Sink, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, engine: engine, audit: sink, log: log.Component("materials")}
}

// Preview calcula materiales para prendas aún no persistidas.
func (uc *UseCase) Preview(ctx context.Context, in dto.MaterialsPreviewRequest) (*dto.MaterialsPreviewResponse, error) {
	garments := make([]GarmentDemand, 0, len(in.Garments))
	for i, g := range in.Garments {
		if g.TotalQuantity <= 0 {
			return nil, fmt.Errorf("%w: prenda #%d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		garments = append(garments, GarmentDemand{
			Index:          i,
			GarmentTypeID:  g.GarmentTypeID,
			MaterialTypeID: g.MaterialTypeID,
			Quantity:       g.TotalQuantity,
		})
	}
	return uc.engine.CalculatePreview(ctx, uc.repos, garments, ManualDemands(in.ManualMaterials, nil))
}

// Recompute recalcula los materiales AUTO de un proyecto en una transacción, bloqueando el proyecto
// para que dos recálculos simultáneos no descuenten dos veces.
func (uc *UseCase) Recompute(ctx context.Context, projectID int64, actorID *int64) (*dto.RecomputeMaterialsResponse, error) {
	var deleted int64
	var res *CommitResult
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		project, err := r.Projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return domain.ErrNotFound
		}
		deleted, res, err = uc.engine.RecomputeAuto(ctx, r, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Project(projectID).Info().Int64("deleted", deleted).
		Int("created", len(res.Requirements)).Msg("materiales recalculados")
	uc.audit.Record(ctx, projectID, actorID, "materiales_auto",
		strconv.FormatInt(deleted, 10), strconv.Itoa(len(res.Requirements)), "recálculo de materiales")

	return &dto.RecomputeMaterialsResponse{
		ProjectID:    projectID,
		Deleted:      deleted,
		Requirements: ToRequirementDTOs(res.Requirements),
		Alerts:       nonNilAlerts(res.Alerts),
	}, nil
}

// ListRequirements lista los requerimientos de un proyecto.
func (uc *UseCase) ListRequirements(ctx context.Context, projectID int64) ([]dto.MaterialRequirementDTO, error) {
	project, err := uc.repos.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Requirements.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ToRequirementDTOs(list), nil
}

// ManualDemands convierte el request en demandas. lineIDs permite ligar a prendas ya persistidas por índice.
func ManualDemands(in []dto.ManualMaterialRequest, lineIDs []int64) []ManualDemand {
	out := make([]ManualDemand, 0, len(in))
	for _, m := range in {
		d := ManualDemand{
			SupplyID:     m.SupplyID,
			Quantity:     m.Quantity,
			GarmentIndex: m.GarmentIndex,
			Note:         m.Note,
		}
		if m.GarmentIndex != nil && *m.GarmentIndex >= 0 && *m.GarmentIndex < len(lineIDs) {
			id := lineIDs[*m.GarmentIndex]
			d.LineID = &id
		}
		out = append(out, d)
	}
	return out
}

// ToRequirementDTOs convierte entidades a DTOs.
func ToRequirementDTOs(list []*entity.MaterialRequirement) []dto.MaterialRequirementDTO {
	out := make([]dto.MaterialRequirementDTO, 0, len(list))
	for _, r := range list {
		out = append(out, dto.MaterialRequirementDTO{
			ID:              r.ID,
			GarmentLineID:   r.GarmentLineID,
			SupplyID:        r.SupplyID,
			Kind:            string(r.Kind),
			AutoQuantity:    r.AutoQuantity,
			ManualQuantity:  r.ManualQuantity,
			Quantity:        r.Quantity(),
			Unit:            r.Unit,
			StockSufficient: r.StockSufficient,
			Note:            r.Note,
		})
	}
	return out
}

func nonNilAlerts(a []dto.MaterialAlertDTO) []dto.MaterialAlertDTO {
	if a == nil {
		return []dto.MaterialAlertDTO{}
	}
	return a
}
