package entity

// GarmentLine línea de prenda de un proyecto. Inmutable después de crear el proyecto.
type GarmentLine struct {
	ID             int64
	ProjectID      int64
	GarmentTypeID  int64
	MaterialTypeID int64
	TotalQuantity  int
	HasEmbroidery  bool
	HasPrint       bool
	DesignNote     string
	Position       int
	Sizes          []SizeDistribution
}

// SizeDistribution cantidad por talla de una línea de prenda.
type SizeDistribution struct {
	ID            int64
	GarmentLineID int64
	Size          string
	Quantity      int
}
