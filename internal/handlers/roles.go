package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/models"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// RoleHandler serves role listings and user-role grant administration.
// Revocation deactivates the link instead of deleting it so the grant
// history is preserved.
type RoleHandler struct {
	db *gorm.DB
}

// NewRoleHandler wires the role endpoints.
func NewRoleHandler(db *gorm.DB) (*RoleHandler, error) {
	if db == nil {
		return nil, errors.New("role handler: db is required")
	}
	return &RoleHandler{db: db}, nil
}

// List returns all roles with their permission grants.
// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	var roles []models.Role
	err := h.db.WithContext(c.Request.Context()).
		Preload("Permissions").Order("name").Find(&roles).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roles)
}

// UserRoles lists a user's role links, active and revoked.
// GET /api/users/:id/roles
func (h *RoleHandler) UserRoles(c *gin.Context) {
	var links []models.UserRole
	err := h.db.WithContext(c.Request.Context()).
		Preload("Role").
		Where("user_id = ?", c.Param("id")).
		Find(&links).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, links)
}

type grantRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Grant assigns a role to a user, reactivating a previously revoked link if
// one exists. Last write wins on concurrent grant/revoke of the same pair.
// POST /api/users/:id/roles
func (h *RoleHandler) Grant(c *gin.Context) {
	var req grantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("role name is required"))
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	var role models.Role
	if err := h.db.WithContext(ctx).First(&role, "name = ?", req.Role).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	actor, _ := middleware.UserID(c)
	link := models.UserRole{
		UserID:     user.ID,
		RoleID:     role.ID,
		AssignedBy: actor,
		IsActive:   true,
	}
	err := h.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assigned_by", "is_active"}),
	}).Create(&link).Error
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"granted": true, "role": role.Name})
}

// Revoke deactivates a user's role link.
// DELETE /api/users/:id/roles/:role
func (h *RoleHandler) Revoke(c *gin.Context) {
	ctx := c.Request.Context()

	var role models.Role
	if err := h.db.WithContext(ctx).First(&role, "name = ?", c.Param("role")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	result := h.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", c.Param("id"), role.ID).
		Update("is_active", false)
	if result.Error != nil {
		response.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	response.OK(c, gin.H{"revoked": true, "role": role.Name})
}
