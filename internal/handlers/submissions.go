package handlers

import (
	"net/http"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/middleware"
	"github.com/Hunteraulo1/f95-france/internal/models"
	"github.com/Hunteraulo1/f95-france/internal/submissions"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler handles the moderation queue
type SubmissionHandler struct {
	subs   *submissions.Service
	policy *auth.Policy
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(subs *submissions.Service, policy *auth.Policy) *SubmissionHandler {
	return &SubmissionHandler{subs: subs, policy: policy}
}

// GetMySubmissions lists the caller's submissions
func (h *SubmissionHandler) GetMySubmissions(c *gin.Context) {
	h.list(c, c.GetString(middleware.ContextUserID))
}

// GetAllSubmissions lists every submission, optionally filtered by status and user
func (h *SubmissionHandler) GetAllSubmissions(c *gin.Context) {
	h.list(c, c.Query("user"))
}

func (h *SubmissionHandler) list(c *gin.Context, userID string) {
	page, limit := pageParams(c, 20, 100)
	status := models.SubmissionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	subs, total, err := h.subs.List(c.Request.Context(), submissions.Filter{
		UserID: userID,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err, "failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
		"pagination":  pagination(page, limit, total),
	})
}

// GetSubmission returns one submission. Only moderators may read other users' submissions.
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	sub, err := h.subs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch submission")
		return
	}
	user := middleware.CurrentUser(c)
	if sub.UserID != user.ID && !h.policy.Can(user.Role, auth.PermSubmissionsModerate) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this submission"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// UpdateSubmissionStatus accepts or rejects a submission
func (h *SubmissionHandler) UpdateSubmissionStatus(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := submissions.ValidateStatusChange(req.Status, req.Notes); err != nil {
		respondError(c, err, "invalid status change")
		return
	}

	sub, err := h.subs.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err, "failed to update submission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}
