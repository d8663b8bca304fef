package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the permission level of an account
type Role string

const (
	RoleUser       Role = "user"
	RoleTranslator Role = "translator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTranslator, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role may moderate submissions
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Theme is the dashboard color scheme a user picked
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// User represents an account
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Avatar       string    `gorm:"size:500;not null" json:"avatar"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Theme        Theme     `gorm:"size:8;not null" json:"theme"`
	DirectMode   bool      `gorm:"not null" json:"direct_mode"`
	GameAdd      int       `gorm:"not null" json:"game_add"`
	GameEdit     int       `gorm:"not null" json:"game_edit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns an id and the account defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Theme == "" {
		u.Theme = ThemeSystem
	}
	return nil
}

// Session is a server-side login session. ID is the sha256 of the secret handed to the client.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:36;not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	User      User `gorm:"foreignKey:UserID"`
}
