package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database"
	"github.com/ndtollman/mainstay/internal/models"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// AssetHandler serves asset CRUD. Authorization happens in the route-level
// permission middleware; handlers validate input and call the ORM.
type AssetHandler struct {
	db *gorm.DB
}

// NewAssetHandler wires the asset endpoints.
func NewAssetHandler(db *gorm.DB) (*AssetHandler, error) {
	if db == nil {
		return nil, errors.New("asset handler: db is required")
	}
	return &AssetHandler{db: db}, nil
}

// List returns a paginated asset listing, optionally filtered by status or
// category.
// GET /api/assets
func (h *AssetHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Asset{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		response.Error(c, err)
		return
	}

	var assets []models.Asset
	err := q.Order("tag").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&assets).Error
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, assets, &response.ListMeta{Page: page, PerPage: perPage, Total: total})
}

// Get returns a single asset.
// GET /api/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	var asset models.Asset
	err := h.db.WithContext(c.Request.Context()).
		First(&asset, "id = ?", c.Param("id")).Error
	if err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	response.OK(c, &asset)
}

type assetRequest struct {
	Tag         string  `json:"tag" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	SiteID      *string `json:"site_id"`
	RoomID      *string `json:"room_id"`
}

// Create registers an asset.
// POST /api/assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("tag and name are required"))
		return
	}

	asset := models.Asset{
		Tag:         req.Tag,
		Name:        req.Name,
		Category:    req.Category,
		Status:      req.Status,
		Description: req.Description,
		SiteID:      req.SiteID,
		RoomID:      req.RoomID,
	}
	if asset.Status == "" {
		asset.Status = models.AssetStatusOperational
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&asset).Error; err != nil {
		if database.IsUniqueConstraintError(err) {
			response.Error(c, apperrors.ErrConflict)
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, &asset)
}

// Update modifies asset fields.
// PATCH /api/assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var asset models.Asset
	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).First(&asset, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Category    *string `json:"category"`
		Status      *string `json:"status"`
		Description *string `json:"description"`
		SiteID      *string `json:"site_id"`
		RoomID      *string `json:"room_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBadRequest)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SiteID != nil {
		updates["site_id"] = *req.SiteID
	}
	if req.RoomID != nil {
		updates["room_id"] = *req.RoomID
	}
	if len(updates) == 0 {
		response.OK(c, &asset)
		return
	}

	if err := h.db.WithContext(ctx).Model(&asset).Updates(updates).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, &asset)
}

// Delete removes an asset.
// DELETE /api/assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	result := h.db.WithContext(c.Request.Context()).
		Delete(&models.Asset{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		response.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
