package entity

import "time"

// ProjectState estado del ciclo de vida de un proyecto de confección.
type ProjectState string

const (
	ProjectStatePending   ProjectState = "PENDIENTE"
	ProjectStateInProcess ProjectState = "EN_PROCESO"
	ProjectStatePaused    ProjectState = "PAUSADO"
	ProjectStateFinished  ProjectState = "FINALIZADO"
	ProjectStateCancelled ProjectState = "CANCELADO"
	ProjectStateArchived  ProjectState = "ARCHIVADO"
)

// Closed indica si el estado ya no admite cambios de avance por área.
func (s ProjectState) Closed() bool {
	return s == ProjectStateCancelled || s == ProjectStateArchived
}

// Project representa un proyecto (orden de producción) de un cliente.
// State y CurrentArea solo los modifica el motor de avance por áreas (o una acción administrativa externa).
type Project struct {
	ID               int64
	Code             string // código humano único, generado al crear
	ClientID         int64
	Name             string
	State            ProjectState
	CurrentArea      string // etiqueta desnormalizada del área en curso
	TotalQuantity    int
	ProducedQuantity int
	ScrapQuantity    int
	Notes            string
	DueDate          *time.Time
	CreatedBy        *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
