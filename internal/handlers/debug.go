package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dating-service/internal/observability"
	"dating-service/internal/telemetry"
	"dating-service/internal/ws"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, bus observability.EventBus, hub *ws.Hub, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitAudit(c, emitter, "debug.audit_test", "", "audit test")
		mode, reason := observability.BusMode(bus)
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"mode":        mode,
			"noop_reason": reason,
		})
	})

	router.GET("/debug/presence/:userId", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.Param("userId"),
			"online": hub.Online(c.Param("userId")),
			"total":  hub.Count(),
		})
	})
}
