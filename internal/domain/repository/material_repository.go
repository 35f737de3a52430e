package repository

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// MaterialConfigRepository catálogo de reglas de consumo (solo lectura).
type MaterialConfigRepository interface {
	// Get devuelve nil, nil si no hay regla para (tipo de prenda, tipo de material).
	Get(ctx context.Context, garmentTypeID, materialTypeID int64) (*entity.MaterialConfig, error)
}

// MaterialRequirementRepository requerimientos de material por proyecto.
type MaterialRequirementRepository interface {
	Create(ctx context.Context, req *entity.MaterialRequirement) error
	ListByProject(ctx context.Context, projectID int64) ([]*entity.MaterialRequirement, error)
	// DeleteAutoByProject elimina los requerimientos AUTO del proyecto y devuelve cuántos borró.
	DeleteAutoByProject(ctx context.Context, projectID int64) (int64, error)
}
