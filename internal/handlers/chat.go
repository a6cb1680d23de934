package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dating-service/internal/models"
	"dating-service/internal/observability"
	"dating-service/internal/services"
	"dating-service/internal/telemetry"
)

// ChatHandler manages direct-message endpoints.
type ChatHandler struct {
	chat  *services.ChatService
	audit *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chat *services.ChatService, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{chat: chat, audit: audit}
}

// SendMessage persists a message. Live delivery only happens over the
// realtime channel; the receiver picks this one up on the next fetch.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		ReceiverID string             `json:"receiverId" binding:"required"`
		Content    string             `json:"content"`
		Type       models.MessageType `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiverId is required"})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), currentUserID(c), req.ReceiverID, req.Content, req.Type)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}

	observability.IncMessageSent("http")
	c.JSON(http.StatusCreated, msg)
}

// ListConversations returns the caller's conversation list, newest first.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	convs, err := h.chat.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "failed to load conversations")
		return
	}
	c.JSON(http.StatusOK, convs)
}

// GetMessages returns the thread with :userId, oldest first.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	msgs, err := h.chat.ListMessages(c.Request.Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// DeleteConversation hides the thread with :targetUserId for the caller.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	target := c.Param("targetUserId")
	if err := h.chat.DeleteConversation(c.Request.Context(), currentUserID(c), target); err != nil {
		respondError(c, err, "failed to delete conversation")
		return
	}
	emitAudit(c, h.audit, telemetry.ActionThreadHidden, target, "conversation hidden")
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}

// DeleteMessage hides one message from the caller's side.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("messageId")
	if err := h.chat.DeleteMessage(c.Request.Context(), currentUserID(c), messageID); err != nil {
		respondError(c, err, "failed to delete message")
		return
	}
	emitAudit(c, h.audit, telemetry.ActionMessageDeleted, messageID, "message deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// UpdateMessage edits a message the caller sent.
func (h *ChatHandler) UpdateMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	messageID := c.Param("messageId")
	msg, err := h.chat.UpdateMessage(c.Request.Context(), currentUserID(c), messageID, req.Content)
	if err != nil {
		respondError(c, err, "failed to update message")
		return
	}
	emitAudit(c, h.audit, telemetry.ActionMessageEdited, messageID, "message edited")
	c.JSON(http.StatusOK, msg)
}
