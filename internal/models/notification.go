package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationStatusChanged NotificationType = "submission_status_changed"
	NotificationNewUser       NotificationType = "new_user_registered"
	NotificationAccepted      NotificationType = "submission_accepted"
	NotificationRejected      NotificationType = "submission_rejected"
	NotificationAPIError      NotificationType = "api_error"
)

// Notification is a message shown in a user's inbox
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"size:32;not null" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Read      bool             `gorm:"not null;index" json:"read"`
	Link      *string          `gorm:"size:500" json:"link"`
	Metadata  datatypes.JSON   `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// APILog records one API request
type APILog struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       *string   `gorm:"size:36;index" json:"user_id"`
	Method       string    `gorm:"size:10;not null" json:"method"`
	Route        string    `gorm:"size:500;not null" json:"route"`
	Status       int       `gorm:"not null;index" json:"status"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
	Payload      *string   `gorm:"type:text" json:"payload"`
	ErrorMessage *string   `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (l *APILog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// AppConfigID is the primary key of the single configuration row
const AppConfigID = "main"

// AppConfig holds settings editable from the dashboard
type AppConfig struct {
	ID                         string    `gorm:"primaryKey;size:16" json:"id"`
	AppName                    string    `gorm:"size:255;not null" json:"app_name"`
	DiscordWebhookUpdates      *string   `gorm:"size:500" json:"discord_webhook_updates"`
	DiscordWebhookLogs         *string   `gorm:"size:500" json:"discord_webhook_logs"`
	DiscordWebhookTranslators  *string   `gorm:"size:500" json:"discord_webhook_translators"`
	DiscordWebhookProofreaders *string   `gorm:"size:500" json:"discord_webhook_proofreaders"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// TranslatorPage is a link to a translator's page on some site
type TranslatorPage struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Translator is a person credited on translations
type Translator struct {
	ID        string                              `gorm:"primaryKey;size:36" json:"id"`
	Name      string                              `gorm:"uniqueIndex;size:255;not null" json:"name"`
	UserID    *string                             `gorm:"size:36" json:"user_id"`
	Pages     datatypes.JSONSlice[TranslatorPage] `json:"pages"`
	DiscordID *string                             `gorm:"uniqueIndex;size:64" json:"discord_id"`
	TradCount int                                 `gorm:"not null" json:"trad_count"`
	ReadCount int                                 `gorm:"not null" json:"read_count"`
	CreatedAt time.Time                           `json:"created_at"`
	UpdatedAt time.Time                           `json:"updated_at"`
}

func (t *Translator) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
