package handlers

import (
	"errors"
	"net/http"

	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/notify"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the caller's inbox
type NotificationHandler struct {
	inbox *notify.Inbox
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox *notify.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// GetNotifications returns the latest notifications and the unread count
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	items, unread, err := h.inbox.List(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err, "failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread_count": unread})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.inbox.MarkRead(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if errors.Is(err, notify.ErrNotificationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err, "failed to update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.inbox.MarkAllRead(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err, "failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
