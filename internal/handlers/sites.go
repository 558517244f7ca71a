package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database"
	"github.com/ndtollman/mainstay/internal/models"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// SiteHandler serves the location hierarchy: sites, buildings, rooms.
type SiteHandler struct {
	db *gorm.DB
}

// NewSiteHandler wires the location endpoints.
func NewSiteHandler(db *gorm.DB) (*SiteHandler, error) {
	if db == nil {
		return nil, errors.New("site handler: db is required")
	}
	return &SiteHandler{db: db}, nil
}

// List returns all sites with their buildings.
// GET /api/sites
func (h *SiteHandler) List(c *gin.Context) {
	var sites []models.Site
	err := h.db.WithContext(c.Request.Context()).
		Preload("Buildings").Order("name").Find(&sites).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sites)
}

type siteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// Create registers a site.
// POST /api/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var req siteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("site name is required"))
		return
	}

	site := models.Site{Name: req.Name, Address: req.Address}
	if err := h.db.WithContext(c.Request.Context()).Create(&site).Error; err != nil {
		if database.IsUniqueConstraintError(err) {
			response.Error(c, apperrors.ErrConflict)
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, &site)
}

// ListBuildings returns a site's buildings with rooms.
// GET /api/sites/:id/buildings
func (h *SiteHandler) ListBuildings(c *gin.Context) {
	var buildings []models.Building
	err := h.db.WithContext(c.Request.Context()).
		Preload("Rooms").
		Where("site_id = ?", c.Param("id")).
		Order("name").Find(&buildings).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, buildings)
}

type buildingRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBuilding adds a building to a site.
// POST /api/sites/:id/buildings
func (h *SiteHandler) CreateBuilding(c *gin.Context) {
	var req buildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("building name is required"))
		return
	}

	ctx := c.Request.Context()
	var site models.Site
	if err := h.db.WithContext(ctx).First(&site, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	building := models.Building{SiteID: site.ID, Name: req.Name}
	if err := h.db.WithContext(ctx).Create(&building).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, &building)
}

type roomRequest struct {
	Name  string `json:"name" binding:"required"`
	Floor string `json:"floor"`
}

// CreateRoom adds a room to a building.
// POST /api/buildings/:id/rooms
func (h *SiteHandler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("room name is required"))
		return
	}

	ctx := c.Request.Context()
	var building models.Building
	if err := h.db.WithContext(ctx).First(&building, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	room := models.Room{BuildingID: building.ID, Name: req.Name, Floor: req.Floor}
	if err := h.db.WithContext(ctx).Create(&room).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, &room)
}
