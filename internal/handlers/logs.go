package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLogLimit = 100
	minLogLimit     = 25
	maxLogLimit     = 500
)

// LogHandler exposes the api request log to superadmins
type LogHandler struct {
	db *gorm.DB
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{db: db}
}

func clampLogLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLogLimit
	}
	return min(max(n, minLogLimit), maxLogLimit)
}

// GetLogs lists recent api logs, newest first
func (h *LogHandler) GetLogs(c *gin.Context) {
	limit := clampLogLimit(c.DefaultQuery("limit", strconv.Itoa(defaultLogLimit)))
	method := strings.ToUpper(strings.TrimSpace(c.Query("method")))
	search := strings.TrimSpace(c.Query("q"))
	userSearch := strings.TrimSpace(c.Query("user"))
	errorsOnly := c.Query("errors") == "true"
	warningsOnly := c.Query("warnings") == "true"
	redirectsOnly := c.Query("redirects") == "true"

	q := h.db.Model(&models.APILog{}).Preload("User")
	if method != "" {
		q = q.Where("api_logs.method = ?", method)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("api_logs.route LIKE ? OR api_logs.payload LIKE ?", pattern, pattern)
	}
	if userSearch != "" {
		q = q.Joins("JOIN users ON users.id = api_logs.user_id").
			Where("users.username LIKE ?", "%"+userSearch+"%")
	}
	if errorsOnly {
		q = q.Where("api_logs.status >= ?", 500)
	}
	if warningsOnly {
		q = q.Where("api_logs.status >= ? AND api_logs.status < ?", 400, 500)
	}
	if redirectsOnly {
		q = q.Where("api_logs.status >= ? AND api_logs.status < ?", 300, 400)
	}

	var logs []models.APILog
	if err := q.Order("api_logs.created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"filters": gin.H{
			"method":    method,
			"search":    search,
			"user":      userSearch,
			"errors":    errorsOnly,
			"warnings":  warningsOnly,
			"redirects": redirectsOnly,
			"limit":     limit,
		},
	})
}
