package entity

import "time"

// Porcentajes válidos de avance.
const (
	ProgressNone     = 0
	ProgressComplete = 100
)

// AreaProgress fila del historial de avance de un proyecto en un área. Nunca se actualiza: siempre se inserta.
// El valor vigente es la fila con RecordedAt más reciente; en empate gana el ID mayor.
type AreaProgress struct {
	ID         int64
	ProjectID  int64
	AreaID     int64
	Percentage int
	RecordedAt time.Time
	RecordedBy *int64
	Note       string
}

// NewerThan indica si p es más reciente que other según (RecordedAt desc, ID desc).
func (p *AreaProgress) NewerThan(other *AreaProgress) bool {
	if other == nil {
		return true
	}
	if !p.RecordedAt.Equal(other.RecordedAt) {
		return p.RecordedAt.After(other.RecordedAt)
	}
	return p.ID > other.ID
}
