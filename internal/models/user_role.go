package models

// UserRole grants a role to a user. Revocation flips IsActive instead of
// deleting the row so the grant history survives; only active rows contribute
// to the user's effective permissions.
type UserRole struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	RoleID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"role_id"`

	AssignedBy string `gorm:"type:uuid" json:"assigned_by"`
	IsActive   bool   `gorm:"default:true;index" json:"is_active"`

	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
