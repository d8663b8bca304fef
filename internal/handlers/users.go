package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles account administration and the caller's own profile
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// RoleRequest represents a role change
type RoleRequest struct {
	Role models.Role `json:"role" binding:"required,oneof=user translator admin superadmin"`
}

// ProfileRequest represents a profile edit
type ProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=32"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=500"`
}

// PreferencesRequest represents a preferences edit
type PreferencesRequest struct {
	Theme      *models.Theme `json:"theme" binding:"omitempty,oneof=system light dark"`
	DirectMode *bool         `json:"direct_mode"`
}

// GetUsers returns a page of accounts
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, limit := pageParams(c, 50, 200)
	q := h.db.Model(&models.User{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	var users []models.User
	if err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination(page, limit, total)})
}

// UpdateRole changes another user's role. Only superadmins may grant or take away superadmin.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := middleware.CurrentUser(c)
	if caller.ID == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change your own role"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if (req.Role == models.RoleSuperadmin || user.Role == models.RoleSuperadmin) && caller.Role != models.RoleSuperadmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only superadmins can manage superadmins"})
		return
	}

	if err := h.db.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user role"})
		return
	}
	user.Role = req.Role
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile edits the caller's username and avatar
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]any{}
	if req.Username != nil {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	h.updateSelf(c, updates)
}

// UpdatePreferences edits the caller's theme and direct mode
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]any{}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.DirectMode != nil {
		updates["direct_mode"] = *req.DirectMode
	}
	h.updateSelf(c, updates)
}

func (h *UserHandler) updateSelf(c *gin.Context, updates map[string]any) {
	userID := c.GetString(middleware.ContextUserID)
	if len(updates) > 0 {
		if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
	}
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
