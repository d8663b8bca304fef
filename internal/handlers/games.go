package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GameHandler handles game and translation requests. Writes go through the
// moderation queue unless the caller is an admin in direct mode.
type GameHandler struct {
	repo *catalog.Repo
	subs *submissions.Service
	log  *zap.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(db *gorm.DB, subs *submissions.Service, log *zap.Logger) *GameHandler {
	return &GameHandler{repo: catalog.NewRepo(db), subs: subs, log: log}
}

// GetGames returns a page of games
func (h *GameHandler) GetGames(c *gin.Context) {
	page, limit := pageParams(c, 20, 100)
	games, total, err := h.repo.ListGames(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err, "failed to fetch games")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"games":      games,
		"pagination": pagination(page, limit, total),
	})
}

// SearchGames matches games by name or thread id
func (h *GameHandler) SearchGames(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query 'q' is required"})
		return
	}
	games, err := h.repo.SearchGames(c.Request.Context(), query, 20)
	if err != nil {
		respondError(c, err, "failed to search games")
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// GetGame returns a game with its translations
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.repo.GetGameWithTranslations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch game")
		return
	}
	c.JSON(http.StatusOK, game)
}

// CreateGame adds a game, optionally with its first translation
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req models.GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	fields := req.Fields()
	var tf *models.TranslationFields
	if req.Translation != nil {
		f := req.Translation.Fields()
		tf = &f
	}
	ctx := c.Request.Context()

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, req.DirectMode) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateGameSubmission(ctx, user.ID, fields, tf)
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	game := fields.Game()
	err := h.repo.Transaction(ctx, func(tx *catalog.Repo) error {
		if err := tx.CreateGame(ctx, &game); err != nil {
			return err
		}
		if tf != nil && tf.TranslationName != nil {
			tr := tf.Translation(game.ID)
			tr.TranslatorID = &user.ID
			if err := tx.CreateTranslation(ctx, &tr); err != nil {
				return err
			}
		}
		return bumpCounter(tx.DB(), user.ID, "game_add")
	})
	if err != nil {
		respondError(c, err, "failed to create game")
		return
	}
	h.log.Info("game created", zap.String("game_id", game.ID), zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{"game": game})
}

// UpdateGame overwrites a game's values
func (h *GameHandler) UpdateGame(c *gin.Context) {
	var req models.GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	id := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.repo.GetGame(ctx, id); err != nil {
		respondError(c, err, "failed to fetch game")
		return
	}

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, req.DirectMode) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateGameUpdateSubmission(ctx, user.ID, id, req.Fields())
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	var game *models.Game
	err := h.repo.Transaction(ctx, func(tx *catalog.Repo) error {
		if err := tx.ReplaceGame(ctx, id, req.Fields()); err != nil {
			return err
		}
		if err := bumpCounter(tx.DB(), user.ID, "game_edit"); err != nil {
			return err
		}
		var err error
		game, err = tx.GetGame(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, err, "failed to update game")
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game})
}

// DeleteGame removes a game and its translations
func (h *GameHandler) DeleteGame(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.repo.GetGame(ctx, id); err != nil {
		respondError(c, err, "failed to fetch game")
		return
	}

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, queryOverride(c)) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateGameDeleteSubmission(ctx, user.ID, id)
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	err := h.repo.Transaction(ctx, func(tx *catalog.Repo) error {
		return tx.DeleteGame(ctx, id)
	})
	if err != nil {
		respondError(c, err, "failed to delete game")
		return
	}
	h.log.Info("game deleted", zap.String("game_id", id), zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "game deleted"})
}

// queryOverride reads the direct_mode query parameter used by bodyless requests
func queryOverride(c *gin.Context) *bool {
	raw, ok := c.GetQuery("direct_mode")
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func bumpCounter(tx *gorm.DB, userID, column string) error {
	res := tx.Model(&models.User{}).Where("id = ?", userID).Update(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
