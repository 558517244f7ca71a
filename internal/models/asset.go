package models

// Asset statuses used by list filters and work-order flows.
const (
	AssetStatusOperational = "operational"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// Asset is a maintainable piece of equipment tracked against a location.
type Asset struct {
	BaseModel

	Tag         string `gorm:"uniqueIndex;not null" json:"tag"`
	Name        string `gorm:"not null" json:"name"`
	Category    string `gorm:"index" json:"category"`
	Status      string `gorm:"default:operational;index" json:"status"`
	Description string `json:"description"`

	SiteID *string `gorm:"type:uuid;index" json:"site_id"`
	RoomID *string `gorm:"type:uuid;index" json:"room_id"`
}
