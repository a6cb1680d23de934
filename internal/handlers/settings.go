package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dating-service/internal/services"
	"dating-service/internal/telemetry"
)

// SettingsHandler exposes block-list management.
type SettingsHandler struct {
	blocks *services.BlockService
	audit  *telemetry.AuditEmitter
}

func NewSettingsHandler(blocks *services.BlockService, audit *telemetry.AuditEmitter) *SettingsHandler {
	return &SettingsHandler{blocks: blocks, audit: audit}
}

type blockRequest struct {
	BlockedID string `json:"blockedId" binding:"required"`
}

func (h *SettingsHandler) Block(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blockedId is required"})
		return
	}
	if err := h.blocks.Block(c.Request.Context(), currentUserID(c), req.BlockedID); err != nil {
		respondError(c, err, "failed to block user")
		return
	}
	emitAudit(c, h.audit, telemetry.ActionUserBlocked, req.BlockedID, "user blocked")
	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (h *SettingsHandler) Unblock(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blockedId is required"})
		return
	}
	if err := h.blocks.Unblock(c.Request.Context(), currentUserID(c), req.BlockedID); err != nil {
		respondError(c, err, "failed to unblock user")
		return
	}
	emitAudit(c, h.audit, telemetry.ActionUserUnblocked, req.BlockedID, "user unblocked")
	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

func (h *SettingsHandler) BlockedUsers(c *gin.Context) {
	users, err := h.blocks.ListBlocked(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to load blocked users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockedUsers": users})
}
