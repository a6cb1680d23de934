package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"dating-service/internal/auth"
	"dating-service/internal/models"
	"dating-service/internal/observability"
	"dating-service/internal/repositories"
	"dating-service/internal/services"
)

const eventTimeout = 10 * time.Second

// Options tunes per-connection buffering.
type Options struct {
	SendBuffer   int
	WriteTimeout time.Duration
}

// Gateway authenticates realtime handshakes and dispatches inbound events.
type Gateway struct {
	hub      *Hub
	chat     *services.ChatService
	tokens   auth.TokenValidator
	users    repositories.UserRepository
	opts     Options
	upgrader websocket.Upgrader
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, chat *services.ChatService, tokens auth.TokenValidator, users repositories.UserRepository, opts Options) *Gateway {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	return &Gateway{
		hub:    hub,
		chat:   chat,
		tokens: tokens,
		users:  users,
		opts:   opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle authenticates the handshake, upgrades, registers presence and
// serves the connection until it closes.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("dating-service/ws").Start(c.Request.Context(), "ws.handshake")
	c.Request = c.Request.WithContext(ctx)

	userID, status, err := g.authenticate(ctx, c.Request)
	if err != nil {
		span.End()
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.End()
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	span.End()

	client := newClient(conn, info, g.opts.SendBuffer, g.opts.WriteTimeout)
	if previous := g.hub.Register(client); previous != nil {
		slog.Info("ws connection replaced", "user_id", userID, "old_conn_id", previous.info.ConnID, "conn_id", info.ConnID)
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, observability.RoutingKeyWSEvents, info.lifecycleEvent("ws_connect", ""), info.headers())
	slog.Info("ws connected", "user_id", userID, "conn_id", info.ConnID)

	go client.writePump()
	g.readPump(context.WithoutCancel(ctx), client)
}

func (g *Gateway) authenticate(ctx context.Context, r *http.Request) (string, int, error) {
	token := auth.HandshakeToken(r)
	if token == "" {
		return "", http.StatusUnauthorized, errors.New("authentication required")
	}

	userID, err := g.tokens.ValidateToken(ctx, token)
	if err != nil {
		return "", http.StatusUnauthorized, errors.New("invalid token")
	}

	user, err := g.users.GetUser(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return "", http.StatusUnauthorized, errors.New("user not found")
	}
	if err != nil {
		slog.Error("ws handshake user lookup", "user_id", userID, "error", err)
		return "", http.StatusInternalServerError, errors.New("failed to authenticate")
	}
	if !user.IsActive {
		return "", http.StatusForbidden, errors.New("account is inactive")
	}
	return userID, http.StatusOK, nil
}

func (g *Gateway) readPump(ctx context.Context, client *Client) {
	var closeReason string
	defer func() {
		g.hub.Unregister(client)
		client.close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		_ = observability.PublishEvent(ctx, observability.RoutingKeyWSEvents, client.info.lifecycleEvent("ws_disconnect", closeReason), client.info.headers())
		slog.Info("ws disconnected", "user_id", client.UserID(), "conn_id", client.info.ConnID, "reason", closeReason)
	}()

	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				_ = observability.PublishEvent(ctx, observability.RoutingKeyWSEvents, client.info.lifecycleEvent("ws_error", closeReason), client.info.headers())
			}
			return
		}

		var frame models.Frame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
			g.sendError(client, "invalid frame")
			continue
		}
		g.dispatch(ctx, client, frame)
	}
}

func (g *Gateway) dispatch(ctx context.Context, client *Client, frame models.Frame) {
	switch frame.Event {
	case models.EventSendMessage:
		observability.IncWSEvent(frame.Event)
		g.handleSendMessage(ctx, client, frame.Data)
	case models.EventTyping:
		observability.IncWSEvent(frame.Event)
		g.relayTyping(client, frame.Data, models.EventUserTyping)
	case models.EventStopTyping:
		observability.IncWSEvent(frame.Event)
		g.relayTyping(client, frame.Data, models.EventUserStoppedTyping)
	default:
		observability.IncWSEvent("unknown")
		g.sendError(client, "unknown event")
	}
}

func (g *Gateway) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var payload models.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ReceiverID == "" {
		g.sendError(client, "receiverId and content are required")
		return
	}

	eventCtx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	msg, err := g.chat.SendMessage(eventCtx, client.UserID(), payload.ReceiverID, payload.Content, payload.Type)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent),
			errors.Is(err, services.ErrInvalidMessageType),
			errors.Is(err, services.ErrReceiverNotFound):
			g.sendError(client, err.Error())
		default:
			slog.Error("ws send message", "user_id", client.UserID(), "receiver_id", payload.ReceiverID, "error", err)
			g.sendError(client, "failed to send message")
		}
		return
	}

	observability.IncMessageSent("ws")
	g.hub.SendTo(msg.ReceiverID, models.EventReceiveMessage, msg)
	push(client, models.EventMessageSent, msg)
}

func (g *Gateway) relayTyping(client *Client, data json.RawMessage, event string) {
	var payload models.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ReceiverID == "" {
		g.sendError(client, "receiverId is required")
		return
	}
	g.hub.SendTo(payload.ReceiverID, event, models.TypingNotice{UserID: client.UserID()})
}

// sendError answers the originating connection only.
func (g *Gateway) sendError(client *Client, message string) {
	push(client, models.EventError, models.ErrorNotice{Message: message})
}
