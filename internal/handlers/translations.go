package handlers

import (
	"net/http"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
)

// CreateTranslation adds a translation to a game
func (h *GameHandler) CreateTranslation(c *gin.Context) {
	var req models.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	gameID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.repo.GetGame(ctx, gameID); err != nil {
		respondError(c, err, "failed to fetch game")
		return
	}

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, req.DirectMode) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateTranslationSubmission(ctx, user.ID, gameID, req.Fields())
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	tr := req.Fields().Translation(gameID)
	tr.TranslatorID = &user.ID
	if err := h.repo.CreateTranslation(ctx, &tr); err != nil {
		respondError(c, err, "failed to create translation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"translation": tr})
}

// UpdateTranslation overwrites a translation's content
func (h *GameHandler) UpdateTranslation(c *gin.Context) {
	var req models.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	gameID, id := c.Param("id"), c.Param("tid")
	ctx := c.Request.Context()

	current, err := h.repo.GetGameTranslation(ctx, gameID, id)
	if err != nil {
		respondError(c, err, "failed to fetch translation")
		return
	}

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, req.DirectMode) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateTranslationUpdateSubmission(ctx, user.ID, gameID, id, req.Fields())
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	var tr *models.Translation
	err = h.repo.Transaction(ctx, func(tx *catalog.Repo) error {
		if err := tx.UpdateTranslation(ctx, id, req.Fields().UpdateColumns(current.TName)); err != nil {
			return err
		}
		var err error
		tr, err = tx.GetTranslation(ctx, id)
		return err
	})
	if err != nil {
		respondError(c, err, "failed to update translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": tr})
}

// DeleteTranslation removes one translation of a game
func (h *GameHandler) DeleteTranslation(c *gin.Context) {
	user := middleware.CurrentUser(c)
	gameID, id := c.Param("id"), c.Param("tid")
	ctx := c.Request.Context()

	if _, err := h.repo.GetGameTranslation(ctx, gameID, id); err != nil {
		respondError(c, err, "failed to fetch translation")
		return
	}

	if submissions.DecideRoutingMode(user.Role, user.DirectMode, queryOverride(c)) == submissions.ThroughSubmission {
		sub, err := h.subs.CreateTranslationDeleteSubmission(ctx, user.ID, gameID, id)
		if err != nil {
			respondError(c, err, "failed to create submission")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"submission": sub})
		return
	}

	if err := h.repo.DeleteTranslation(ctx, id); err != nil {
		respondError(c, err, "failed to delete translation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "translation deleted"})
}
