package repository

// Repos agrupa los repositorios atados a una misma transacción (o al pool fuera de ella).
type Repos struct {
	Projects     ProjectRepository
	Areas        AreaRepository
	Progress     AreaProgressRepository
	Garments     GarmentRepository
	Configs      MaterialConfigRepository
	Requirements MaterialRequirementRepository
	Supplies     SupplyRepository
	Movements    SupplyMovementRepository
	Locations    StockLocationRepository
}
