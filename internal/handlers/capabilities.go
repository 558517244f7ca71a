package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/internal/rbac"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// CapabilityHandler serves the capability snapshot the web client caches per
// session, plus the full permission registry for administrators.
type CapabilityHandler struct {
	db       *gorm.DB
	resolver *rbac.Resolver
}

// NewCapabilityHandler wires the capability endpoints.
func NewCapabilityHandler(db *gorm.DB, resolver *rbac.Resolver) (*CapabilityHandler, error) {
	if db == nil || resolver == nil {
		return nil, errors.New("capability handler: db and resolver are required")
	}
	return &CapabilityHandler{db: db, resolver: resolver}, nil
}

// My returns the authenticated user's permissions, roles, and admin flag.
// GET /api/permissions/my
func (h *CapabilityHandler) My(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	response.OK(c, h.resolver.Capabilities(c.Request.Context(), userID))
}

// Registry lists every seeded permission row.
// GET /api/permissions/registry
func (h *CapabilityHandler) Registry(c *gin.Context) {
	var perms []models.Permission
	err := h.db.WithContext(c.Request.Context()).
		Order("name").Find(&perms).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, perms)
}
