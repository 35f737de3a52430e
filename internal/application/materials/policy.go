package materials

import "github.com/jhoicas/Confeccion-api/internal/domain/entity"

// SelectionPolicy elige el insumo a usar entre los candidatos de un tipo de material.
// El cálculo no permite fijar un lote concreto: la elección es siempre de la política.
type SelectionPolicy interface {
	Select(candidates []*entity.Supply) *entity.Supply
}

// LowestIDPolicy elige el insumo de menor ID (el primero registrado).
type LowestIDPolicy struct{}

// Select devuelve nil si no hay candidatos.
func (LowestIDPolicy) Select(candidates []*entity.Supply) *entity.Supply {
	var chosen *entity.Supply
	for _, s := range candidates {
		if chosen == nil || s.ID < chosen.ID {
			chosen = s
		}
	}
	return chosen
}
