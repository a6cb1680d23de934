package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dating-service/internal/middleware"
	"dating-service/internal/observability"
	"dating-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func userIDFromContext(c *gin.Context) *string {
	if userID := currentUserID(c); userID != "" {
		return &userID
	}
	if header := c.GetHeader("X-User-ID"); header != "" {
		return &header
	}
	return nil
}

func emitAudit(c *gin.Context, emitter *telemetry.AuditEmitter, action, targetID, text string) {
	if emitter == nil {
		return
	}
	emitter.Emit(c.Request.Context(), telemetry.AuditEntry{
		Level:     "INFO",
		Action:    action,
		TargetID:  targetID,
		Text:      text,
		RequestID: requestIDFromContext(c),
		TraceID:   observability.TraceIDFromContext(c.Request.Context()),
		UserID:    userIDFromContext(c),
	})
}
