package models

import "time"

// Work order lifecycle states.
const (
	WorkOrderStatusOpen       = "open"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusCompleted  = "completed"
	WorkOrderStatusCancelled  = "cancelled"
)

// Work order priorities.
const (
	WorkOrderPriorityLow    = "low"
	WorkOrderPriorityMedium = "medium"
	WorkOrderPriorityHigh   = "high"
	WorkOrderPriorityUrgent = "urgent"
)

// WorkOrder is a maintenance task, optionally bound to an asset and assigned
// to a technician.
type WorkOrder struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"default:open;index" json:"status"`
	Priority    string `gorm:"default:medium;index" json:"priority"`

	AssetID    *string `gorm:"type:uuid;index" json:"asset_id"`
	AssignedTo *string `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedBy  string  `gorm:"type:uuid;not null" json:"created_by"`

	DueAt       *time.Time `json:"due_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
