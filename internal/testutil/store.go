// Package testutil provee un almacén en memoria que implementa todos los puertos de repositorio
// y un TxRunner con snapshot/rollback, para probar casos de uso sin PostgreSQL.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

type configKey struct{ garment, material int64 }

type state struct {
	nextID       int64
	projects     map[int64]*entity.Project
	areas        []*entity.ProductionArea
	progress     []*entity.AreaProgress
	garments     []*entity.GarmentLine
	configs      map[configKey]*entity.MaterialConfig
	requirements []*entity.MaterialRequirement
	supplies     map[int64]*entity.Supply
	movements    []*entity.SupplyMovement
	locations    []*entity.StockLocationEntry
	audit        []*entity.AuditEntry
	overrides    []*entity.AreaPermissionOverride
}

func newState() *state {
	return &state{
		nextID:   1000,
		projects: map[int64]*entity.Project{},
		configs:  map[configKey]*entity.MaterialConfig{},
		supplies: map[int64]*entity.Supply{},
	}
}

// clone copia profunda de lo que los repos pueden mutar.
func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.projects {
		p := *v
		c.projects[k] = &p
	}
	c.areas = append(c.areas, s.areas...)
	c.progress = append(c.progress, s.progress...)
	for _, g := range s.garments {
		c.garments = append(c.garments, copyLine(g))
	}
	for k, v := range s.configs {
		c.configs[k] = v
	}
	c.requirements = append(c.requirements, s.requirements...)
	for k, v := range s.supplies {
		sp := *v
		c.supplies[k] = &sp
	}
	c.movements = append(c.movements, s.movements...)
	c.locations = append(c.locations, s.locations...)
	c.audit = append(c.audit, s.audit...)
	c.overrides = append(c.overrides, s.overrides...)
	return c
}

func copyLine(g *entity.GarmentLine) *entity.GarmentLine {
	c := *g
	c.Sizes = append([]entity.SizeDistribution(nil), g.Sizes...)
	return &c
}

// Store almacén en memoria. Seguro para uso concurrente; las transacciones se serializan.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
	fail map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), fail: map[string]error{}}
}

// FailOn hace que la operación op (ej. "requirements.create") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *Store) failure(op string) error {
	return s.fail[op]
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Repos repositorios atados al almacén.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Projects:     projectRepo{s},
		Areas:        areaRepo{s},
		Progress:     progressRepo{s},
		Garments:     garmentRepo{s},
		Configs:      configRepo{s},
		Requirements: requirementRepo{s},
		Supplies:     supplyRepo{s},
		Movements:    movementRepo{s},
		Locations:    locationRepo{s},
	}
}

// Audit repositorio de bitácora.
func (s *Store) Audit() repository.AuditRepository { return auditRepo{s} }

// Permissions repositorio de overrides de permisos.
func (s *Store) Permissions() repository.PermissionRepository { return permissionRepo{s} }

// Run implementa ports.TxRunner: si fn falla se restaura el snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	err := fn(s.Repos())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Seed / inspección
// ──────────────────────────────────────────────────────────────────────────────

// AddArea agrega un área al catálogo.
func (s *Store) AddArea(id int64, name string, order int) *entity.ProductionArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &entity.ProductionArea{ID: id, Name: name, Order: order}
	s.st.areas = append(s.st.areas, a)
	return a
}

// AddConfig agrega una regla de consumo.
func (s *Store) AddConfig(c entity.MaterialConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := c
	s.st.configs[configKey{c.GarmentTypeID, c.MaterialTypeID}] = &cc
}

// AddSupply agrega un insumo.
func (s *Store) AddSupply(sp entity.Supply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := sp
	s.st.supplies[sp.ID] = &c
}

// AddProject agrega un proyecto ya existente y devuelve su ID.
func (s *Store) AddProject(p entity.Project) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.st.projects[c.ID] = &c
	return c.ID
}

// AddOverride agrega un override de permiso.
func (s *Store) AddOverride(o entity.AreaPermissionOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := o
	s.st.overrides = append(s.st.overrides, &c)
}

// Supply copia del insumo actual.
func (s *Store) Supply(id int64) entity.Supply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.st.supplies[id]
}

// Project copia del proyecto (nil si no existe).
func (s *Store) Project(id int64) *entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.projects[id]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// Counts número de filas por tabla, para verificar rollbacks.
type Counts struct {
	Projects, Garments, Requirements, Progress, Movements, Locations, Audit int
}

// Counts devuelve el número de filas de cada tabla.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Projects:     len(s.st.projects),
		Garments:     len(s.st.garments),
		Requirements: len(s.st.requirements),
		Progress:     len(s.st.progress),
		Movements:    len(s.st.movements),
		Locations:    len(s.st.locations),
		Audit:        len(s.st.audit),
	}
}

// AuditEntries copia de la bitácora.
func (s *Store) AuditEntries() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AuditEntry, 0, len(s.st.audit))
	for _, e := range s.st.audit {
		out = append(out, *e)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

type projectRepo struct{ s *Store }

func (r projectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("projects.create"); err != nil {
		return err
	}
	for _, existing := range r.s.st.projects {
		if existing.Code == p.Code {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, p.Code)
		}
	}
	p.ID = r.s.id()
	c := *p
	r.s.st.projects[p.ID] = &c
	return nil
}

func (r projectRepo) GetByID(_ context.Context, id int64) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.projects[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r projectRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Project, error) {
	return r.GetByID(ctx, id)
}

func (r projectRepo) UpdateProgress(_ context.Context, id int64, st entity.ProjectState, currentArea string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("projects.update_progress"); err != nil {
		return err
	}
	p, ok := r.s.st.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.State = st
	p.CurrentArea = currentArea
	p.UpdatedAt = updatedAt
	return nil
}

type areaRepo struct{ s *Store }

func (r areaRepo) ListOrdered(context.Context) ([]*entity.ProductionArea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.ProductionArea, 0, len(r.s.st.areas))
	for _, a := range r.s.st.areas {
		c := *a
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

type progressRepo struct{ s *Store }

func (r progressRepo) Insert(_ context.Context, p *entity.AreaProgress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("progress.insert"); err != nil {
		return err
	}
	p.ID = r.s.id()
	c := *p
	r.s.st.progress = append(r.s.st.progress, &c)
	return nil
}

func (r progressRepo) ListByProject(_ context.Context, projectID int64) ([]*entity.AreaProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AreaProgress
	for _, p := range r.s.st.progress {
		if p.ProjectID == projectID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

type garmentRepo struct{ s *Store }

func (r garmentRepo) Create(_ context.Context, g *entity.GarmentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("garments.create"); err != nil {
		return err
	}
	g.ID = r.s.id()
	for i := range g.Sizes {
		g.Sizes[i].ID = r.s.id()
		g.Sizes[i].GarmentLineID = g.ID
	}
	r.s.st.garments = append(r.s.st.garments, copyLine(g))
	return nil
}

func (r garmentRepo) ListByProject(_ context.Context, projectID int64) ([]*entity.GarmentLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.GarmentLine
	for _, g := range r.s.st.garments {
		if g.ProjectID == projectID {
			out = append(out, copyLine(g))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

type configRepo struct{ s *Store }

func (r configRepo) Get(_ context.Context, garmentTypeID, materialTypeID int64) (*entity.MaterialConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.configs[configKey{garmentTypeID, materialTypeID}]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

type requirementRepo struct{ s *Store }

func (r requirementRepo) Create(_ context.Context, req *entity.MaterialRequirement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("requirements.create"); err != nil {
		return err
	}
	req.ID = r.s.id()
	c := *req
	r.s.st.requirements = append(r.s.st.requirements, &c)
	return nil
}

func (r requirementRepo) ListByProject(_ context.Context, projectID int64) ([]*entity.MaterialRequirement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MaterialRequirement
	for _, req := range r.s.st.requirements {
		if req.ProjectID == projectID {
			c := *req
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r requirementRepo) DeleteAutoByProject(_ context.Context, projectID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []*entity.MaterialRequirement
	var deleted int64
	for _, req := range r.s.st.requirements {
		if req.ProjectID == projectID && req.Kind == entity.MaterialKindAuto {
			deleted++
			continue
		}
		kept = append(kept, req)
	}
	r.s.st.requirements = kept
	return deleted, nil
}

type supplyRepo struct{ s *Store }

func (r supplyRepo) GetByID(_ context.Context, id int64) (*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.st.supplies[id]
	if !ok {
		return nil, nil
	}
	c := *sp
	return &c, nil
}

func (r supplyRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Supply, error) {
	return r.GetByID(ctx, id)
}

func (r supplyRepo) ListByMaterialType(_ context.Context, materialTypeID int64) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supply
	for _, sp := range r.s.st.supplies {
		if sp.MaterialTypeID != nil && *sp.MaterialTypeID == materialTypeID {
			c := *sp
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r supplyRepo) UpdateStock(_ context.Context, sp *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("supplies.update_stock"); err != nil {
		return err
	}
	cur, ok := r.s.st.supplies[sp.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.StockActual = sp.StockActual
	cur.State = sp.State
	cur.UpdatedAt = sp.UpdatedAt
	return nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.SupplyMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	c := *m
	r.s.st.movements = append(r.s.st.movements, &c)
	return nil
}

func (r movementRepo) ListBySupply(_ context.Context, supplyID int64, limit, offset int) ([]*entity.SupplyMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.SupplyMovement
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		if m := r.s.st.movements[i]; m.SupplyID == supplyID {
			c := *m
			all = append(all, &c)
		}
	}
	if offset >= len(all) {
		return []*entity.SupplyMovement{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type locationRepo struct{ s *Store }

func (r locationRepo) Create(_ context.Context, e *entity.StockLocationEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	c := *e
	r.s.st.locations = append(r.s.st.locations, &c)
	return nil
}

func (r locationRepo) ListBySupply(_ context.Context, supplyID int64) ([]*entity.StockLocationEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockLocationEntry
	for _, e := range r.s.st.locations {
		if e.SupplyID == supplyID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

type auditRepo struct{ s *Store }

func (r auditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("audit.create"); err != nil {
		return err
	}
	e.ID = r.s.id()
	c := *e
	r.s.st.audit = append(r.s.st.audit, &c)
	return nil
}

type permissionRepo struct{ s *Store }

func (r permissionRepo) FindOverride(_ context.Context, kind string, subjectID, areaID int64) (*entity.AreaPermissionOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.st.overrides {
		if o.SubjectKind == kind && o.SubjectID == subjectID && o.AreaID == areaID {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}
