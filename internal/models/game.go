package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameType is the engine a game is built with
type GameType string

const (
	GameTypeRenpy  GameType = "renpy"
	GameTypeRPGM   GameType = "rpgm"
	GameTypeUnity  GameType = "unity"
	GameTypeUnreal GameType = "unreal"
	GameTypeFlash  GameType = "flash"
	GameTypeHTML   GameType = "html"
	GameTypeQSP    GameType = "qsp"
	GameTypeOther  GameType = "other"
)

// Website is the forum a game thread lives on
type Website string

const (
	WebsiteF95z  Website = "f95z"
	WebsiteLC    Website = "lc"
	WebsiteOther Website = "other"
)

// TranslationStatus is the progress state of a translation
type TranslationStatus string

const (
	TranslationInProgress TranslationStatus = "in_progress"
	TranslationCompleted  TranslationStatus = "completed"
	TranslationAbandoned  TranslationStatus = "abandoned"
)

// TranslationType describes how a translation was produced
type TranslationType string

const (
	TranslationTypeAuto     TranslationType = "auto"
	TranslationTypeVF       TranslationType = "vf"
	TranslationTypeManual   TranslationType = "manual"
	TranslationTypeSemiAuto TranslationType = "semi-auto"
	TranslationTypeToTested TranslationType = "to_tested"
	TranslationTypeHS       TranslationType = "hs"
)

// TranslationKind tells whether a translation ships separately from the game
type TranslationKind string

const (
	KindNoTranslation       TranslationKind = "no_translation"
	KindIntegrated          TranslationKind = "integrated"
	KindTranslation         TranslationKind = "translation"
	KindTranslationWithMods TranslationKind = "translation_with_mods"
)

// HasLink reports whether translations of this kind carry their own download link
func (k TranslationKind) HasLink() bool {
	return k != KindNoTranslation && k != KindIntegrated
}

// Game represents a tracked game
type Game struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	Name         string        `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description  *string       `gorm:"type:text" json:"description"`
	Type         GameType      `gorm:"size:16;not null" json:"type"`
	Website      Website       `gorm:"size:8;not null" json:"website"`
	ThreadID     *int          `gorm:"index" json:"thread_id"`
	Tags         string        `gorm:"type:text;not null" json:"tags"`
	Link         string        `gorm:"size:500;not null" json:"link"`
	Image        string        `gorm:"size:500;not null" json:"image"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Translations []Translation `gorm:"foreignKey:GameID" json:"translations,omitempty"`
}

// BeforeCreate assigns an id when the caller did not provide one
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Translation represents a fan translation of a game
type Translation struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	GameID          string            `gorm:"size:36;not null;index" json:"game_id"`
	TranslationName *string           `gorm:"size:255" json:"translation_name"`
	Status          TranslationStatus `gorm:"size:16;not null" json:"status"`
	Version         string            `gorm:"size:100;not null" json:"version"`
	TVersion        string            `gorm:"column:tversion;size:100;not null" json:"tversion"`
	TLink           string            `gorm:"column:tlink;type:text;not null" json:"tlink"`
	TName           TranslationKind   `gorm:"column:tname;size:32;not null" json:"tname"`
	TranslatorID    *string           `gorm:"size:255" json:"translator_id"`
	ProofreaderID   *string           `gorm:"size:255" json:"proofreader_id"`
	TType           TranslationType   `gorm:"column:ttype;size:16;not null" json:"ttype"`
	AC              bool              `gorm:"column:ac;not null" json:"ac"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// BeforeCreate assigns an id when the caller did not provide one
func (t *Translation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
