package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dating-service/internal/models"
	"dating-service/internal/services"
	"dating-service/internal/telemetry"
)

// LikeHandler exposes the like/match endpoints.
type LikeHandler struct {
	matches *services.MatchService
	audit   *telemetry.AuditEmitter
}

// NewLikeHandler builds a LikeHandler.
func NewLikeHandler(matches *services.MatchService, audit *telemetry.AuditEmitter) *LikeHandler {
	return &LikeHandler{matches: matches, audit: audit}
}

// SendLike records a like or dislike from the caller.
func (h *LikeHandler) SendLike(c *gin.Context) {
	var req struct {
		ReceiverID string        `json:"receiverId" binding:"required"`
		Action     models.Action `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiverId and action are required"})
		return
	}

	result, err := h.matches.RecordInteraction(c.Request.Context(), currentUserID(c), req.ReceiverID, req.Action)
	if err != nil {
		respondError(c, err, "failed to record interaction")
		return
	}

	if result.Changed {
		action := telemetry.ActionLikeSent
		if req.Action == models.ActionDislike {
			action = telemetry.ActionDislikeSent
		}
		emitAudit(c, h.audit, action, req.ReceiverID, string(req.Action))
	}
	if result.NewMatch {
		emitAudit(c, h.audit, telemetry.ActionMatchCreated, req.ReceiverID, "mutual like")
	}

	c.JSON(http.StatusOK, gin.H{"isMatch": result.IsMatch})
}

// ReceivedLikes lists pending likes addressed to the caller.
func (h *LikeHandler) ReceivedLikes(c *gin.Context) {
	likes, err := h.matches.ListReceivedLikes(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to load received likes")
		return
	}
	c.JSON(http.StatusOK, likes)
}
