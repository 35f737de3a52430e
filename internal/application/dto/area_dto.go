package dto

import "time"

// AreaDTO área del catálogo.
type AreaDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// AreaProgressDTO avance vigente de un proyecto en un área.
type AreaProgressDTO struct {
	AreaID     int64      `json:"area_id"`
	Name       string     `json:"name"`
	Order      int        `json:"order"`
	Percentage int        `json:"percentage"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
	RecordedBy *int64     `json:"recorded_by,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// ProjectProgressResponse avance por área de un proyecto.
type ProjectProgressResponse struct {
	ProjectID       int64             `json:"project_id"`
	State           string            `json:"state"`
	CurrentArea     string            `json:"current_area"`
	AreaPercentages [5]int            `json:"area_percentages"`
	Areas           []AreaProgressDTO `json:"areas"`
	Finished        bool              `json:"finished"`
}

// CompleteAreaRequest body para POST /api/projects/:id/areas/complete.
type CompleteAreaRequest struct {
	Area string `json:"area"`
	Note string `json:"note,omitempty"`
}

// RetreatAreaRequest body opcional para POST /api/projects/:id/areas/retreat.
type RetreatAreaRequest struct {
	Note string `json:"note,omitempty"`
}

// AreaTransitionResponse resultado de completar o retroceder un área.
type AreaTransitionResponse struct {
	ProjectID   int64  `json:"project_id"`
	Area        string `json:"area"`
	Percentage  int    `json:"percentage"`
	State       string `json:"state"`
	CurrentArea string `json:"current_area"`
	Finished    bool   `json:"finished"`
}
