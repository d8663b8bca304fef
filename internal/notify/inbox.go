// Package notify delivers in-app notifications and Discord webhook messages.
// Delivery is best-effort: failures are logged and never reach the caller's operation.
package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListLimit is how many notifications List returns
const ListLimit = 50

var ErrNotificationNotFound = errors.New("notification not found")

// Inbox stores and reads per-user notifications
type Inbox struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInbox(db *gorm.DB, log *zap.Logger) *Inbox {
	return &Inbox{db: db, log: log}
}

// Entry describes a notification to create
type Entry struct {
	Type     models.NotificationType
	Title    string
	Message  string
	Link     string
	Metadata map[string]any
}

// Create stores a notification for userID
func (b *Inbox) Create(ctx context.Context, userID string, e Entry) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    e.Type,
		Title:   e.Title,
		Message: e.Message,
	}
	if e.Link != "" {
		n.Link = &e.Link
	}
	if e.Metadata != nil {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		n.Metadata = datatypes.JSON(meta)
	}
	return b.db.WithContext(ctx).Create(n).Error
}

// Broadcast notifies every user holding role. Individual failures are logged.
func (b *Inbox) Broadcast(ctx context.Context, role models.Role, e Entry) {
	var ids []string
	if err := b.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error; err != nil {
		b.log.Warn("failed to load notification recipients", zap.String("role", string(role)), zap.Error(err))
		return
	}
	for _, id := range ids {
		if err := b.Create(ctx, id, e); err != nil {
			b.log.Warn("failed to create notification", zap.String("user_id", id), zap.Error(err))
		}
	}
}

// List returns the latest notifications of a user and how many are unread
func (b *Inbox) List(ctx context.Context, userID string) ([]models.Notification, int64, error) {
	var (
		items  []models.Notification
		unread int64
	)
	db := b.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(ListLimit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

// MarkRead flags one notification of userID as read
func (b *Inbox) MarkRead(ctx context.Context, userID, id string) error {
	res := b.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of userID as read
func (b *Inbox) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := b.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
