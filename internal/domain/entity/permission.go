package entity

// AreaPermissionOverride permiso explícito (permitir/denegar) de un usuario o rol sobre un área.
type AreaPermissionOverride struct {
	SubjectKind string // "user" | "role"
	SubjectID   int64
	AreaID      int64
	Allowed     bool
}

const (
	PermissionSubjectUser = "user"
	PermissionSubjectRole = "role"
)
