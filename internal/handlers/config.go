package handlers

import (
	"net/http"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConfigHandler reads and edits the application settings row
type ConfigHandler struct {
	db *gorm.DB
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(db *gorm.DB) *ConfigHandler {
	return &ConfigHandler{db: db}
}

// ConfigRequest represents the settings update body. Absent fields are left unchanged;
// an empty webhook clears it.
type ConfigRequest struct {
	AppName                    *string `json:"app_name"`
	DiscordWebhookUpdates      *string `json:"discord_webhook_updates" binding:"omitempty,url|len=0"`
	DiscordWebhookLogs         *string `json:"discord_webhook_logs" binding:"omitempty,url|len=0"`
	DiscordWebhookTranslators  *string `json:"discord_webhook_translators" binding:"omitempty,url|len=0"`
	DiscordWebhookProofreaders *string `json:"discord_webhook_proofreaders" binding:"omitempty,url|len=0"`
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	var cfg models.AppConfig
	if err := h.db.First(&cfg, "id = ?", models.AppConfigID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.AppName != nil {
		name := strings.TrimSpace(*req.AppName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "app name cannot be empty"})
			return
		}
		updates["app_name"] = name
	}
	for column, value := range map[string]*string{
		"discord_webhook_updates":      req.DiscordWebhookUpdates,
		"discord_webhook_logs":         req.DiscordWebhookLogs,
		"discord_webhook_translators":  req.DiscordWebhookTranslators,
		"discord_webhook_proofreaders": req.DiscordWebhookProofreaders,
	} {
		if value == nil {
			continue
		}
		if v := strings.TrimSpace(*value); v != "" {
			updates[column] = v
		} else {
			updates[column] = nil
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.AppConfig{ID: models.AppConfigID}).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update config"})
			return
		}
	}
	h.GetConfig(c)
}
