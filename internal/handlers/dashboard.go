package handlers

import (
	"net/http"

	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	db   *gorm.DB
	subs *submissions.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(db *gorm.DB, subs *submissions.Service) *DashboardHandler {
	return &DashboardHandler{db: db, subs: subs}
}

// GetDashboard returns dashboard data for the authenticated user
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	mine, err := h.subs.CountByStatus(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	var recentGames []models.Game
	h.db.WithContext(ctx).Order("updated_at DESC").Limit(10).Find(&recentGames)

	resp := gin.H{
		"user_stats": gin.H{
			"submissions": mine,
			"game_add":    user.GameAdd,
			"game_edit":   user.GameEdit,
		},
		"recent_games": recentGames,
	}

	if user.Role.IsAdmin() {
		all, err := h.subs.CountByStatus(ctx, "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
			return
		}
		var totalUsers, totalGames, totalTranslations int64
		h.db.WithContext(ctx).Model(&models.User{}).Count(&totalUsers)
		h.db.WithContext(ctx).Model(&models.Game{}).Count(&totalGames)
		h.db.WithContext(ctx).Model(&models.Translation{}).Count(&totalTranslations)
		resp["global_stats"] = gin.H{
			"total_users":        totalUsers,
			"total_games":        totalGames,
			"total_translations": totalTranslations,
			"submissions":        all,
		}
	}

	c.JSON(http.StatusOK, resp)
}
