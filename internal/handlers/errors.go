package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, submissions.ErrNotFound),
		errors.Is(err, catalog.ErrGameNotFound),
		errors.Is(err, catalog.ErrTranslationNotFound):
		return http.StatusNotFound
	case errors.Is(err, submissions.ErrConflict),
		errors.Is(err, catalog.ErrDuplicateName),
		errors.Is(err, submissions.ErrMissingSnapshot),
		errors.Is(err, submissions.ErrStatusChanged):
		return http.StatusConflict
	case errors.Is(err, submissions.ErrInvalidPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, submissions.ErrInvalidRequest),
		errors.Is(err, submissions.ErrInvalidTransition),
		errors.Is(err, submissions.ErrNoteRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error. Unknown errors are hidden behind fallback
// and attached to the context for the request logger.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// pageParams reads page and limit query parameters
func pageParams(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

func pagination(page, limit int, total int64) gin.H {
	return gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": (total + int64(limit) - 1) / int64(limit),
	}
}
