package handlers

import (
	"errors"
	"net/http"

	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/scrape"

	"github.com/gin-gonic/gin"
)

// ScrapeHandler prefills game forms from forum threads
type ScrapeHandler struct {
	scraper *scrape.Scraper
}

// NewScrapeHandler creates a new ScrapeHandler
func NewScrapeHandler(scraper *scrape.Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

// ScrapeRequest represents the scrape request body
type ScrapeRequest struct {
	Website  models.Website      `json:"website" binding:"required"`
	ThreadID models.ThreadNumber `json:"thread_id" binding:"required"`
}

// Scrape fetches the metadata of an F95Zone thread
func (h *ScrapeHandler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Website != models.WebsiteF95z {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scraping is only available for F95Zone"})
		return
	}

	game, err := h.scraper.Scrape(c.Request.Context(), int(req.ThreadID))
	if err != nil {
		if errors.Is(err, scrape.ErrInvalidThread) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch thread"})
		return
	}
	c.JSON(http.StatusOK, game)
}
