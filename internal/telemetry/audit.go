package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Audit actions recorded by the service.
const (
	ActionLikeSent       = "like.sent"
	ActionDislikeSent    = "like.disliked"
	ActionMatchCreated   = "like.matched"
	ActionMessageEdited  = "message.edited"
	ActionMessageDeleted = "message.deleted"
	ActionThreadHidden   = "conversation.hidden"
	ActionUserBlocked    = "user.blocked"
	ActionUserUnblocked  = "user.unblocked"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	TraceID       string       `json:"trace_id,omitempty"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level    string `json:"level"`
	Action   string `json:"action"`
	TargetID string `json:"target_id,omitempty"`
	Text     string `json:"text"`
}

// AuditEntry is one auditable fact about a user action.
type AuditEntry struct {
	Level     string
	Action    string
	TargetID  string
	Text      string
	RequestID string
	TraceID   string
	UserID    *string
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

func (e *AuditEmitter) Emit(ctx context.Context, entry AuditEntry) {
	if e == nil || e.publisher == nil {
		return
	}

	slog.Debug("audit emit", "level", entry.Level, "action", entry.Action, "request_id", entry.RequestID, "text", entry.Text)
	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     entry.RequestID,
		TraceID:       entry.TraceID,
		UserID:        entry.UserID,
		Payload: AuditPayload{
			Level:    entry.Level,
			Action:   entry.Action,
			TargetID: entry.TargetID,
			Text:     entry.Text,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		slog.Warn("audit publish failed", "action", entry.Action, "error", err)
	}
}
