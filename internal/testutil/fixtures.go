package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Confeccion-api/internal/domain/entity"
)

// IDs del catálogo de ejemplo.
const (
	AreaAdmin  int64 = 10
	AreaDesign int64 = 20
	AreaQA     int64 = 30

	GarmentTShirt       int64 = 1
	MaterialJersey      int64 = 7
	MaterialWithoutItem int64 = 8 // tipo de material sin insumos en catálogo
	SupplyJersey        int64 = 501
	SupplyThread        int64 = 601
)

// SeedCatalog carga áreas Admin → Diseño → QA, la regla Camiseta/Jersey (0.5 m por unidad),
// una regla para el material sin insumos y el insumo Jersey con el stock indicado.
func SeedCatalog(s *Store, jerseyStock int64) {
	s.AddArea(AreaQA, "QA", 2)
	s.AddArea(AreaAdmin, "Admin", 0)
	s.AddArea(AreaDesign, "Diseño", 1)

	s.AddConfig(entity.MaterialConfig{
		GarmentTypeID:   GarmentTShirt,
		MaterialTypeID:  MaterialJersey,
		QuantityPerUnit: decimal.RequireFromString("0.5"),
		Unit:            "m",
	})
	s.AddConfig(entity.MaterialConfig{
		GarmentTypeID:   GarmentTShirt,
		MaterialTypeID:  MaterialWithoutItem,
		QuantityPerUnit: decimal.NewFromInt(1),
		Unit:            "m",
	})

	mt := MaterialJersey
	s.AddSupply(entity.Supply{
		ID:             SupplyJersey,
		Code:           "INS-JER",
		Name:           "Jersey algodón",
		MaterialTypeID: &mt,
		Unit:           "m",
		StockActual:    decimal.NewFromInt(jerseyStock),
		MinimumStock:   decimal.NewFromInt(5),
		State:          entity.SupplyStateAvailable,
	})
	s.AddSupply(entity.Supply{
		ID:           SupplyThread,
		Code:         "INS-HIL",
		Name:         "Hilo poliéster",
		Unit:         "cono",
		StockActual:  decimal.NewFromInt(20),
		MinimumStock: decimal.NewFromInt(2),
		State:        entity.SupplyStateAvailable,
	})
}
