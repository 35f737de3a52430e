// Package production contiene la máquina de estados pura del avance por áreas de un proyecto.
// No accede a la base de datos: recibe catálogo e historial y calcula transiciones.
package production

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Confeccion-api/internal/domain"
	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
	"github.com/jhoicas/Confeccion-api/pkg/textnorm"
)

// LegacySlotCount número de posiciones fijas del espejo histórico de porcentajes.
const LegacySlotCount = 5

// Board tablero de avance de un proyecto: catálogo ordenado + último avance por área.
type Board struct {
	areas  []*entity.ProductionArea
	latest map[int64]*entity.AreaProgress
}

// NewBoard construye el tablero. Ordena el catálogo por Order (desempate por ID) y toma,
// por área, la fila de historial más reciente según (RecordedAt desc, ID desc).
func NewBoard(areas []*entity.ProductionArea, history []*entity.AreaProgress) *Board {
	sorted := make([]*entity.ProductionArea, len(areas))
	copy(sorted, areas)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	latest := make(map[int64]*entity.AreaProgress, len(sorted))
	for _, p := range history {
		if p.NewerThan(latest[p.AreaID]) {
			latest[p.AreaID] = p
		}
	}
	return &Board{areas: sorted, latest: latest}
}

// Areas devuelve el catálogo ordenado.
func (b *Board) Areas() []*entity.ProductionArea { return b.areas }

// Latest devuelve el último avance registrado del área (nil si nunca se registró).
func (b *Board) Latest(areaID int64) *entity.AreaProgress { return b.latest[areaID] }

// Percentage porcentaje vigente del área; 0 si no hay historial.
func (b *Board) Percentage(areaID int64) int {
	if p := b.latest[areaID]; p != nil {
		return p.Percentage
	}
	return entity.ProgressNone
}

func (b *Board) complete(areaID int64) bool {
	return b.Percentage(areaID) >= entity.ProgressComplete
}

// Find resuelve un nombre de área sin distinguir mayúsculas ni tildes.
func (b *Board) Find(name string) (int, *entity.ProductionArea, error) {
	want := textnorm.Fold(name)
	if want != "" {
		for i, a := range b.areas {
			if textnorm.Fold(a.Name) == want {
				return i, a, nil
			}
		}
	}
	return -1, nil, fmt.Errorf("%w: %q no existe en el catálogo", domain.ErrInvalidArea, name)
}

// CurrentArea primera área (por orden) con avance < 100. ok=false si todas están completas.
func (b *Board) CurrentArea() (*entity.ProductionArea, bool) {
	for _, a := range b.areas {
		if !b.complete(a.ID) {
			return a, true
		}
	}
	return nil, false
}

// Finished indica la configuración terminal: catálogo no vacío y todas las áreas al 100%.
func (b *Board) Finished() bool {
	_, pending := b.CurrentArea()
	return len(b.areas) > 0 && !pending
}

// Apply incorpora al tablero la fila recién insertada; pasa a ser el avance vigente del área.
func (b *Board) Apply(p *entity.AreaProgress) {
	b.latest[p.AreaID] = p
}

// CompletionPlan resultado de validar CompleteArea.
type CompletionPlan struct {
	Area  *entity.ProductionArea
	Index int
	Last  bool
}

// PlanCompletion valida las precondiciones de completar un área sin modificar nada:
// el área existe, la anterior está al 100% y la propia aún no lo está.
func (b *Board) PlanCompletion(areaName string) (*CompletionPlan, error) {
	idx, area, err := b.Find(areaName)
	if err != nil {
		return nil, err
	}
	if idx > 0 {
		prev := b.areas[idx-1]
		if !b.complete(prev.ID) {
			return nil, fmt.Errorf("%w: debe completar %q antes de %q (avance actual %d%%)",
				domain.ErrOutOfOrder, prev.Name, area.Name, b.Percentage(prev.ID))
		}
	}
	if b.complete(area.ID) {
		return nil, fmt.Errorf("%w: %q ya está al 100%%", domain.ErrAlreadyComplete, area.Name)
	}
	return &CompletionPlan{Area: area, Index: idx, Last: idx == len(b.areas)-1}, nil
}

// PlanRetreat busca, desde el final del catálogo, la última área completa.
func (b *Board) PlanRetreat() (*entity.ProductionArea, error) {
	for i := len(b.areas) - 1; i >= 0; i-- {
		if b.complete(b.areas[i].ID) {
			return b.areas[i], nil
		}
	}
	return nil, domain.ErrNothingToRetreat
}

// AreaSlot proyección derivada del avance de un área.
type AreaSlot struct {
	AreaID     int64
	Name       string
	Order      int
	Percentage int
	Latest     *entity.AreaProgress
}

// Slots proyección ordenada del avance, del tamaño del catálogo.
func (b *Board) Slots() []AreaSlot {
	out := make([]AreaSlot, 0, len(b.areas))
	for _, a := range b.areas {
		out = append(out, AreaSlot{
			AreaID:     a.ID,
			Name:       a.Name,
			Order:      a.Order,
			Percentage: b.Percentage(a.ID),
			Latest:     b.latest[a.ID],
		})
	}
	return out
}

// LegacySlots espejo posicional de cinco porcentajes: posición i = área i del catálogo, 0 si no existe.
func (b *Board) LegacySlots() [LegacySlotCount]int {
	var out [LegacySlotCount]int
	for i, a := range b.areas {
		if i >= LegacySlotCount {
			break
		}
		out[i] = b.Percentage(a.ID)
	}
	return out
}

// CurrentLabel etiqueta del área en curso. En configuración terminal devuelve el nombre de la última área.
func (b *Board) CurrentLabel() string {
	if a, ok := b.CurrentArea(); ok {
		return a.Name
	}
	if len(b.areas) == 0 {
		return ""
	}
	return b.areas[len(b.areas)-1].Name
}
