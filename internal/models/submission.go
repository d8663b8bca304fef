package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionStatus is the moderation state of a submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known status
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionAccepted, SubmissionRejected:
		return true
	}
	return false
}

// SubmissionKind tells which change a submission proposes
type SubmissionKind string

const (
	SubmissionGame        SubmissionKind = "game"
	SubmissionUpdate      SubmissionKind = "update"
	SubmissionTranslation SubmissionKind = "translation"
	SubmissionDelete      SubmissionKind = "delete"
)

// Submission is a moderation-gated change to a game or translation.
// Data holds the proposed values and, once applied, the snapshot needed to revert.
type Submission struct {
	ID            string           `gorm:"primaryKey;size:36" json:"id"`
	UserID        string           `gorm:"size:36;not null;index" json:"user_id"`
	Status        SubmissionStatus `gorm:"size:16;not null;index" json:"status"`
	Kind          SubmissionKind   `gorm:"column:type;size:16;not null" json:"type"`
	GameID        *string          `gorm:"size:36;index" json:"game_id"`
	TranslationID *string          `gorm:"size:36" json:"translation_id"`
	Data          datatypes.JSON   `json:"data"`
	AdminNotes    *string          `gorm:"type:text" json:"admin_notes"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	User          *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate assigns an id when the caller did not provide one
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
