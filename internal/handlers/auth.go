package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/auth"
	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/models"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/metrics"
	"github.com/ndtollman/mainstay/pkg/response"
)

// AuthHandler serves login and the current-user endpoint.
type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.SessionService
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(db *gorm.DB, sessions *auth.SessionService) (*AuthHandler, error) {
	if db == nil || sessions == nil {
		return nil, errors.New("auth handler: db and session service are required")
	}
	return &AuthHandler{db: db, sessions: sessions}, nil
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("username and password are required"))
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		First(&user, "username = ? AND is_active = ?", req.Username, true).Error
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, apperrors.ErrInvalidCredentials)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now()
	h.db.WithContext(c.Request.Context()).
		Model(&user).Update("last_login_at", &now)

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.OK(c, loginResponse{Token: token, User: &user})
}

// Me returns the authenticated user's profile.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error
	if err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	response.OK(c, &user)
}
