package entity

import "time"

// AuditEntry cambio informativo sobre un proyecto (quién, qué campo, valor anterior y nuevo).
type AuditEntry struct {
	ID        int64
	ProjectID int64
	ActorID   *int64
	Field     string
	OldValue  string
	NewValue  string
	Note      string
	CreatedAt time.Time
}
