package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TranslatorHandler handles the translator directory
type TranslatorHandler struct {
	db *gorm.DB
}

// NewTranslatorHandler creates a new TranslatorHandler
func NewTranslatorHandler(db *gorm.DB) *TranslatorHandler {
	return &TranslatorHandler{db: db}
}

// TranslatorRequest represents the body for creating or editing a translator
type TranslatorRequest struct {
	Name      string                  `json:"name" binding:"required"`
	UserID    *string                 `json:"user_id"`
	Pages     []models.TranslatorPage `json:"pages"`
	DiscordID *string                 `json:"discord_id"`
}

func (r TranslatorRequest) apply(t *models.Translator) {
	t.Name = strings.TrimSpace(r.Name)
	t.UserID = r.UserID
	t.Pages = datatypes.JSONSlice[models.TranslatorPage](r.Pages)
	if t.Pages == nil {
		t.Pages = datatypes.JSONSlice[models.TranslatorPage]{}
	}
	t.DiscordID = nil
	if r.DiscordID != nil && strings.TrimSpace(*r.DiscordID) != "" {
		id := strings.TrimSpace(*r.DiscordID)
		t.DiscordID = &id
	}
}

// GetTranslators lists every translator by name
func (h *TranslatorHandler) GetTranslators(c *gin.Context) {
	var translators []models.Translator
	if err := h.db.Order("name ASC").Find(&translators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch translators"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"translators": translators})
}

// CreateTranslator adds a translator; names and discord ids are unique
func (h *TranslatorHandler) CreateTranslator(c *gin.Context) {
	var req TranslatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var t models.Translator
	req.apply(&t)
	if t.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if msg := h.conflict(&t); msg != "" {
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}
	if err := h.db.Create(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "translator already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create translator"})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTranslator edits a translator
func (h *TranslatorHandler) UpdateTranslator(c *gin.Context) {
	var t models.Translator
	if err := h.db.First(&t, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "translator not found"})
		return
	}
	var req TranslatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.apply(&t)
	if msg := h.conflict(&t); msg != "" {
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}
	if err := h.db.Save(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "translator already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update translator"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// conflict reports which unique value of t another translator already uses
func (h *TranslatorHandler) conflict(t *models.Translator) string {
	var count int64
	q := h.db.Model(&models.Translator{}).Where("name = ?", t.Name)
	if t.ID != "" {
		q = q.Where("id <> ?", t.ID)
	}
	if q.Count(&count); count > 0 {
		return "a translator named \"" + t.Name + "\" already exists"
	}
	if t.DiscordID != nil {
		q = h.db.Model(&models.Translator{}).Where("discord_id = ?", *t.DiscordID)
		if t.ID != "" {
			q = q.Where("id <> ?", t.ID)
		}
		if q.Count(&count); count > 0 {
			return "a translator with this discord id already exists"
		}
	}
	return ""
}
