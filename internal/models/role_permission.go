package models

import "time"

// RolePermission is the join row granting a permission to a role. The
// composite primary key makes initializer upserts idempotent.
type RolePermission struct {
	RoleID       string `gorm:"primaryKey;type:uuid" json:"role_id"`
	PermissionID string `gorm:"primaryKey;type:uuid" json:"permission_id"`

	CreatedAt time.Time `json:"created_at"`
}
