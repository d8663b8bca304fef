package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db       *gorm.DB
	sessions *auth.Sessions
	notifier *notify.Notifier
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(db *gorm.DB, sessions *auth.Sessions, notifier *notify.Notifier, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, notifier: notifier, log: log}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// LoginRequest represents the login request body. Username also accepts the email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration. The first account becomes superadmin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := h.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		DirectMode:   true,
	}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleSuperadmin
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, _, err := h.sessions.Issue(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	if user.Role != models.RoleSuperadmin {
		h.notifier.NewUser(c.Request.Context(), &user)
	}
	h.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login := strings.TrimSpace(req.Username)
	var user models.User
	if err := h.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, _, err := h.sessions.Issue(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout ends the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Revoke(c.Request.Context(), c.GetString(middleware.ContextToken)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(auth.SessionLifetime.Seconds()), "/", "", false, true)
}
