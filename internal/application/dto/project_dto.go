package dto

import "time"

// SizeRequest cantidad por talla.
type SizeRequest struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// GarmentRequest línea de prenda al crear un proyecto.
type GarmentRequest struct {
	GarmentTypeID  int64         `json:"garment_type_id"`
	MaterialTypeID int64         `json:"material_type_id"`
	TotalQuantity  int           `json:"total_quantity"`
	HasEmbroidery  bool          `json:"has_embroidery"`
	HasPrint       bool          `json:"has_print"`
	DesignNote     string        `json:"design_note,omitempty"`
	Sizes          []SizeRequest `json:"sizes"`
}

// CreateProjectRequest body para POST /api/projects.
type CreateProjectRequest struct {
	ClientID        int64                   `json:"client_id"`
	Name            string                  `json:"name"`
	Notes           string                  `json:"notes,omitempty"`
	DueDate         *time.Time              `json:"due_date,omitempty"`
	Garments        []GarmentRequest        `json:"garments"`
	ManualMaterials []ManualMaterialRequest `json:"manual_materials"`
}

// GarmentResponse línea de prenda persistida.
type GarmentResponse struct {
	ID             int64         `json:"id"`
	GarmentTypeID  int64         `json:"garment_type_id"`
	MaterialTypeID int64         `json:"material_type_id"`
	TotalQuantity  int           `json:"total_quantity"`
	HasEmbroidery  bool          `json:"has_embroidery"`
	HasPrint       bool          `json:"has_print"`
	DesignNote     string        `json:"design_note,omitempty"`
	Position       int           `json:"position"`
	Sizes          []SizeRequest `json:"sizes"`
}

// ProjectResponse proyecto con su proyección de avance derivada.
type ProjectResponse struct {
	ID               int64                    `json:"id"`
	Code             string                   `json:"code"`
	ClientID         int64                    `json:"client_id"`
	Name             string                   `json:"name"`
	State            string                   `json:"state"`
	CurrentArea      string                   `json:"current_area"`
	TotalQuantity    int                      `json:"total_quantity"`
	ProducedQuantity int                      `json:"produced_quantity"`
	ScrapQuantity    int                      `json:"scrap_quantity"`
	Notes            string                   `json:"notes,omitempty"`
	DueDate          *time.Time               `json:"due_date,omitempty"`
	AreaPercentages  [5]int                   `json:"area_percentages"` // espejo legado de 5 posiciones
	Areas            []AreaProgressDTO        `json:"areas"`
	Garments         []GarmentResponse        `json:"garments,omitempty"`
	Requirements     []MaterialRequirementDTO `json:"requirements,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// CreateProjectResponse proyecto creado más las alertas de materiales.
type CreateProjectResponse struct {
	Project ProjectResponse    `json:"project"`
	Alerts  []MaterialAlertDTO `json:"alerts"`
}
