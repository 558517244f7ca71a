package models

// Site is a physical location grouping buildings.
type Site struct {
	BaseModel

	Name    string `gorm:"uniqueIndex;not null" json:"name"`
	Address string `json:"address"`

	Buildings []Building `gorm:"foreignKey:SiteID" json:"buildings,omitempty"`
}

// Building belongs to a site and groups rooms.
type Building struct {
	BaseModel

	SiteID string `gorm:"type:uuid;not null;index" json:"site_id"`
	Name   string `gorm:"not null" json:"name"`

	Rooms []Room `gorm:"foreignKey:BuildingID" json:"rooms,omitempty"`
}

// Room is the smallest addressable location for assets and work orders.
type Room struct {
	BaseModel

	BuildingID string `gorm:"type:uuid;not null;index" json:"building_id"`
	Name       string `gorm:"not null" json:"name"`
	Floor      string `json:"floor"`
}
