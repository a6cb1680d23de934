package ws

import (
	"time"

	"dating-service/internal/observability"
)

// ConnInfo is the identity and tracing context captured at handshake.
type ConnInfo struct {
	ConnID      string
	UserID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func (i ConnInfo) lifecycleEvent(event, reason string) observability.EventEnvelope {
	duration := int64(0)
	if !i.ConnectedAt.IsZero() {
		duration = time.Since(i.ConnectedAt).Milliseconds()
	}
	return wsEvent(event, i, duration, reason)
}

func (i ConnInfo) headers() map[string]string {
	return observability.BuildHeaders(i.RequestID, i.TraceID)
}
