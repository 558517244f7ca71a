package models

// Permission is an atomic "resource:action" capability. Rows are written only
// by the RBAC initializer; Resource and Action are derived from Name by
// splitting on the first colon.
type Permission struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Resource    string `gorm:"not null;index" json:"resource"`
	Action      string `gorm:"not null" json:"action"`
	Description string `json:"description"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}
