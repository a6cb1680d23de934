package observability

import "time"

// Routing keys on the service's topic exchange.
const (
	RoutingKeyWSEvents = "ws_events.direct"
	RoutingKeyMatches  = "likes.matched"
)

type EventEnvelope struct {
	EventType  string      `json:"event_type"`
	EventName  string      `json:"event_name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// WSEventPayload describes one realtime connection lifecycle event.
type WSEventPayload struct {
	Event      string `json:"event"`
	ConnID     string `json:"conn_id"`
	UserID     string `json:"user_id"`
	DeviceID   string `json:"device_id,omitempty"`
	IP         string `json:"ip,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Reason     string `json:"reason,omitempty"`
}

// MatchPayload announces a committed mutual match.
type MatchPayload struct {
	UserIDs [2]string `json:"user_ids"`
}

func NewWSEvent(payload WSEventPayload) EventEnvelope {
	return EventEnvelope{
		EventType:  "ws_events",
		EventName:  payload.Event,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func NewMatchEvent(initiatorID, counterpartID string) EventEnvelope {
	return EventEnvelope{
		EventType:  "likes",
		EventName:  "match_created",
		OccurredAt: time.Now().UTC(),
		Payload:    MatchPayload{UserIDs: [2]string{initiatorID, counterpartID}},
	}
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
