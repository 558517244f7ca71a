package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/database"
	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/internal/rbac"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// UserHandler serves user administration endpoints.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler wires the user endpoints.
func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	if db == nil {
		return nil, errors.New("user handler: db is required")
	}
	return &UserHandler{db: db}, nil
}

// List returns all users.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	err := h.db.WithContext(c.Request.Context()).
		Order("username").Find(&users).Error
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

type createUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// Create registers a user and grants the default role, attributing the grant
// to the acting administrator.
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("username, email, and a password of at least 8 characters are required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		DisplayName: req.DisplayName,
		IsActive:    true,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueConstraintError(err) {
			response.Error(c, apperrors.ErrConflict)
			return
		}
		response.Error(c, err)
		return
	}

	// New accounts always start with the default role.
	var role models.Role
	if err := h.db.WithContext(ctx).First(&role, "name = ?", rbac.DefaultRoleName).Error; err == nil {
		actor, _ := middleware.UserID(c)
		h.db.WithContext(ctx).Create(&models.UserRole{
			UserID:     user.ID,
			RoleID:     role.ID,
			AssignedBy: actor,
			IsActive:   true,
		})
	}

	response.Created(c, &user)
}

// Deactivate disables a user account without deleting it.
// DELETE /api/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	result := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", c.Param("id")).
		Update("is_active", false)
	if result.Error != nil {
		response.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	response.OK(c, gin.H{"deactivated": true})
}
