// Package project crea proyectos de confección y arma su modelo de lectura.
package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/dto"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
	"github.com/jhoicas/Confeccion-api/internal/application/ports"
	"github.com/jhoicas/Confeccion-api/internal/application/progress"
	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/production"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

// UseCase alta y consulta de proyectos.
type UseCase struct {
	txRunner   ports.TxRunner
	repos      repository.Repos
	engine     *materials.Engine
	audit      audit.Sink
	log        *logger.Logger
	codePrefix string
	now        func() time.Time
	suffix     func() string
}

// NewUseCase construye el caso de uso. codePrefix es el prefijo del código humano (ej. "PRY").
func NewUseCase(txRunner ports.TxRunner, repos repository.Repos, engine *materials.Engine, sink audit.Sink, codePrefix string, log *logger.Logger) *UseCase {
	if codePrefix == "" {
		codePrefix = "PRY"
	}
	return &UseCase{
		txRunner:   txRunner,
		repos:      repos,
		engine:     engine,
		audit:      sink,
		log:        log.Component("project"),
		codePrefix: codePrefix,
		now:        time.Now,
		suffix:     randomSuffix,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
}

// Code genera el código humano del proyecto: <prefijo>-<aammdd>-<6 hex>.
func (uc *UseCase) Code(at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", uc.codePrefix, at.Format("060102"), uc.suffix())
}

// Validate revisa el request completo antes de cualquier escritura.
func Validate(in dto.CreateProjectRequest) error {
	if in.ClientID <= 0 {
		return fmt.Errorf("%w: client_id es obligatorio", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Garments) == 0 {
		return fmt.Errorf("%w: el proyecto debe tener al menos una prenda", domain.ErrInvalidInput)
	}
	for i, g := range in.Garments {
		if g.GarmentTypeID <= 0 || g.MaterialTypeID <= 0 {
			return fmt.Errorf("%w: prenda #%d sin tipo de prenda o material", domain.ErrInvalidInput, i+1)
		}
		if g.TotalQuantity <= 0 {
			return fmt.Errorf("%w: prenda #%d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		sum := 0
		for _, s := range g.Sizes {
			if strings.TrimSpace(s.Size) == "" || s.Quantity < 0 {
				return fmt.Errorf("%w: prenda #%d con talla inválida", domain.ErrInvalidInput, i+1)
			}
			sum += s.Quantity
		}
		if sum != g.TotalQuantity {
			return fmt.Errorf("%w: prenda #%d suma %d en tallas y declara %d",
				domain.ErrSizeSumMismatch, i+1, sum, g.TotalQuantity)
		}
	}
	for i, m := range in.ManualMaterials {
		if m.GarmentIndex != nil && (*m.GarmentIndex < 0 || *m.GarmentIndex >= len(in.Garments)) {
			return fmt.Errorf("%w: material manual #%d referencia una prenda inexistente", domain.ErrInvalidInput, i+1)
		}
	}
	return materials.ValidateManual(materials.ManualDemands(in.ManualMaterials, nil))
}

// Create valida, persiste el proyecto con sus prendas y descuenta materiales en una sola transacción.
// Cualquier error deja la base como estaba.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProjectRequest, actorID *int64) (*dto.CreateProjectResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var created *entity.Project
	var view *dto.ProjectResponse
	var alerts []dto.MaterialAlertDTO
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		areas, err := r.Areas.ListOrdered(ctx)
		if err != nil {
			return err
		}
		board := production.NewBoard(areas, nil)

		p := &entity.Project{
			Code:        uc.Code(now),
			ClientID:    in.ClientID,
			Name:        strings.TrimSpace(in.Name),
			State:       entity.ProjectStatePending,
			CurrentArea: board.CurrentLabel(),
			Notes:       in.Notes,
			DueDate:     in.DueDate,
			CreatedBy:   actorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, g := range in.Garments {
			p.TotalQuantity += g.TotalQuantity
		}
		if err := r.Projects.Create(ctx, p); err != nil {
			return err
		}

		lineIDs := make([]int64, 0, len(in.Garments))
		lines := make([]*entity.GarmentLine, 0, len(in.Garments))
		for i, g := range in.Garments {
			line := &entity.GarmentLine{
				ProjectID:      p.ID,
				GarmentTypeID:  g.GarmentTypeID,
				MaterialTypeID: g.MaterialTypeID,
				TotalQuantity:  g.TotalQuantity,
				HasEmbroidery:  g.HasEmbroidery,
				HasPrint:       g.HasPrint,
				DesignNote:     g.DesignNote,
				Position:       i,
			}
			for _, s := range g.Sizes {
				line.Sizes = append(line.Sizes, entity.SizeDistribution{Size: strings.TrimSpace(s.Size), Quantity: s.Quantity})
			}
			if err := r.Garments.Create(ctx, line); err != nil {
				return err
			}
			lineIDs = append(lineIDs, line.ID)
			lines = append(lines, line)
		}

		res, err := uc.engine.CommitForProject(ctx, r, p.ID,
			materials.DemandsFromLines(lines), materials.ManualDemands(in.ManualMaterials, lineIDs))
		if err != nil {
			return err
		}
		created = p
		alerts = res.Alerts
		// La respuesta sale de lo escrito en esta transacción: tras el commit no se vuelve a leer.
		view = toProjectResponse(p, board, lines, res.Requirements)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Err(err).Msg("código de proyecto duplicado")
		}
		return nil, err
	}

	uc.log.Project(created.ID).Info().Str("code", created.Code).
		Int("garments", len(in.Garments)).Int("alerts", len(alerts)).Msg("proyecto creado")
	uc.audit.Record(ctx, created.ID, actorID, "estado", "", string(created.State), "proyecto creado")

	if alerts == nil {
		alerts = []dto.MaterialAlertDTO{}
	}
	return &dto.CreateProjectResponse{Project: *view, Alerts: alerts}, nil
}

// Get arma el modelo de lectura del proyecto: prendas, requerimientos y avance derivado.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.ProjectResponse, error) {
	p, err := uc.repos.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	board, err := progress.LoadBoard(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.repos.Garments.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	reqs, err := uc.repos.Requirements.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p, board, lines, reqs), nil
}

func toProjectResponse(p *entity.Project, board *production.Board, lines []*entity.GarmentLine, reqs []*entity.MaterialRequirement) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:               p.ID,
		Code:             p.Code,
		ClientID:         p.ClientID,
		Name:             p.Name,
		State:            string(p.State),
		CurrentArea:      p.CurrentArea,
		TotalQuantity:    p.TotalQuantity,
		ProducedQuantity: p.ProducedQuantity,
		ScrapQuantity:    p.ScrapQuantity,
		Notes:            p.Notes,
		DueDate:          p.DueDate,
		AreaPercentages:  board.LegacySlots(),
		Areas:            progress.ToAreaProgressDTOs(board),
		Garments:         toGarmentResponses(lines),
		Requirements:     materials.ToRequirementDTOs(reqs),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toGarmentResponses(lines []*entity.GarmentLine) []dto.GarmentResponse {
	out := make([]dto.GarmentResponse, 0, len(lines))
	for _, l := range lines {
		g := dto.GarmentResponse{
			ID:             l.ID,
			GarmentTypeID:  l.GarmentTypeID,
			MaterialTypeID: l.MaterialTypeID,
			TotalQuantity:  l.TotalQuantity,
			HasEmbroidery:  l.HasEmbroidery,
			HasPrint:       l.HasPrint,
			DesignNote:     l.DesignNote,
			Position:       l.Position,
			Sizes:          make([]dto.SizeRequest, 0, len(l.Sizes)),
		}
		for _, s := range l.Sizes {
			g.Sizes = append(g.Sizes, dto.SizeRequest{Size: s.Size, Quantity: s.Quantity})
		}
		out = append(out, g)
	}
	return out
}
