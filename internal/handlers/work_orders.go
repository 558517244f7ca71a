package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/models"
	apperrors "github.com/ndtollman/mainstay/pkg/errors"
	"github.com/ndtollman/mainstay/pkg/response"
)

// WorkOrderHandler serves work order CRUD and assignment.
type WorkOrderHandler struct {
	db *gorm.DB
}

// NewWorkOrderHandler wires the work order endpoints.
func NewWorkOrderHandler(db *gorm.DB) (*WorkOrderHandler, error) {
	if db == nil {
		return nil, errors.New("work order handler: db is required")
	}
	return &WorkOrderHandler{db: db}, nil
}

// List returns work orders, optionally filtered by status or assignee.
// GET /api/work-orders
func (h *WorkOrderHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.WorkOrder{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		q = q.Where("assigned_to = ?", assignee)
	}

	var orders []models.WorkOrder
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, orders)
}

type workOrderRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssetID     *string    `json:"asset_id"`
	DueAt       *time.Time `json:"due_at"`
}

// Create opens a work order attributed to the authenticated user.
// POST /api/work-orders
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req workOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("title is required"))
		return
	}

	userID, _ := middleware.UserID(c)
	order := models.WorkOrder{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.WorkOrderStatusOpen,
		Priority:    req.Priority,
		AssetID:     req.AssetID,
		CreatedBy:   userID,
		DueAt:       req.DueAt,
	}
	if order.Priority == "" {
		order.Priority = models.WorkOrderPriorityMedium
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&order).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, &order)
}

type workOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress completed cancelled"`
}

// UpdateStatus transitions a work order through its lifecycle.
// PATCH /api/work-orders/:id/status
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	var req workOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("status must be one of open, in_progress, completed, cancelled"))
		return
	}

	ctx := c.Request.Context()
	var order models.WorkOrder
	if err := h.db.WithContext(ctx).First(&order, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	updates := map[string]any{"status": req.Status}
	if req.Status == models.WorkOrderStatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := h.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, &order)
}

type assignRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required"`
}

// Assign hands a work order to a technician.
// POST /api/work-orders/:id/assign
func (h *WorkOrderHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("assigned_to is required"))
		return
	}

	ctx := c.Request.Context()
	var order models.WorkOrder
	if err := h.db.WithContext(ctx).First(&order, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	var assignee models.User
	if err := h.db.WithContext(ctx).First(&assignee, "id = ? AND is_active = ?", req.AssignedTo, true).Error; err != nil {
		response.Error(c, apperrors.NewBadRequest("assignee not found or inactive"))
		return
	}

	updates := map[string]any{"assigned_to": assignee.ID}
	if order.Status == models.WorkOrderStatusOpen {
		updates["status"] = models.WorkOrderStatusInProgress
	}

	if err := h.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, &order)
}

// Delete removes a work order.
// DELETE /api/work-orders/:id
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	result := h.db.WithContext(c.Request.Context()).
		Delete(&models.WorkOrder{}, "id = ?", c.Param("id"))
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
