package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dating-service/internal/auth"
	"dating-service/internal/mocks"
	"dating-service/internal/models"
	"dating-service/internal/services"
)

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
)

type gatewayFixture struct {
	hub      *Hub
	server   *httptest.Server
	tokens   *mocks.TokenValidatorMock
	users    *mocks.UserRepositoryMock
	messages *mocks.MessageRepositoryMock
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gatewayFixture{
		hub:      NewHub(),
		tokens:   new(mocks.TokenValidatorMock),
		users:    new(mocks.UserRepositoryMock),
		messages: new(mocks.MessageRepositoryMock),
	}
	f.tokens.On("ValidateToken", mock.Anything, "tok-alice").Return(aliceID, nil).Maybe()
	f.tokens.On("ValidateToken", mock.Anything, "tok-bob").Return(bobID, nil).Maybe()
	f.tokens.On("ValidateToken", mock.Anything, "bogus").Return("", auth.ErrInvalidToken).Maybe()
	f.users.On("GetUser", mock.Anything, aliceID).Return(models.User{ID: aliceID, IsActive: true}, nil).Maybe()
	f.users.On("GetUser", mock.Anything, bobID).Return(models.User{ID: bobID, IsActive: true}, nil).Maybe()

	chat := services.NewChatService(f.messages, f.users)
	gateway := NewGateway(f.hub, chat, f.tokens, f.users, Options{SendBuffer: 8, WriteTimeout: time.Second})

	router := gin.New()
	router.GET("/ws", gateway.Handle)
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *gatewayFixture) dial(t *testing.T, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func (f *gatewayFixture) connect(t *testing.T, token, userID string) *websocket.Conn {
	t.Helper()
	conn, _, err := f.dial(t, "?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return f.hub.Online(userID) }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) models.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame models.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestHandshakeWithoutCredentialIsRejected(t *testing.T) {
	f := newGatewayFixture(t)

	_, resp, err := f.dial(t, "", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, f.hub.Count())
}

func TestHandshakeWithInvalidTokenIsRejected(t *testing.T) {
	f := newGatewayFixture(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer bogus")
	_, resp, err := f.dial(t, "", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, f.hub.Count())
}

func TestHandshakeAcceptsTokenHeader(t *testing.T) {
	f := newGatewayFixture(t)

	header := http.Header{}
	header.Set("token", "tok-bob")
	conn, _, err := f.dial(t, "", header)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.hub.Online(bobID) }, 2*time.Second, 10*time.Millisecond)
}

func TestSendMessageDeliversToReceiverAndAcksSender(t *testing.T) {
	f := newGatewayFixture(t)
	stored := models.Message{ID: "m1", SenderID: aliceID, ReceiverID: bobID, Content: "hi", Type: models.MessageTypeText}
	f.messages.On("CreateMessage", mock.Anything, aliceID, bobID, "hi", models.MessageTypeText).Return(stored, nil).Once()

	alice := f.connect(t, "tok-alice", aliceID)
	bob := f.connect(t, "tok-bob", bobID)

	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "sendMessage",
		"data":  map[string]any{"receiverId": bobID, "content": "hi"},
	}))

	received := readFrame(t, bob)
	assert.Equal(t, models.EventReceiveMessage, received.Event)
	assert.Contains(t, string(received.Data), `"id":"m1"`)

	ack := readFrame(t, alice)
	assert.Equal(t, models.EventMessageSent, ack.Event)
	assert.Contains(t, string(ack.Data), `"content":"hi"`)

	f.messages.AssertExpectations(t)
}

func TestSendMessageToOfflineUserStillAcks(t *testing.T) {
	f := newGatewayFixture(t)
	stored := models.Message{ID: "m2", SenderID: aliceID, ReceiverID: bobID, Content: "later", Type: models.MessageTypeText}
	f.messages.On("CreateMessage", mock.Anything, aliceID, bobID, "later", models.MessageTypeText).Return(stored, nil).Once()

	alice := f.connect(t, "tok-alice", aliceID)
	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "sendMessage",
		"data":  map[string]any{"receiverId": bobID, "content": "later", "type": "text"},
	}))

	ack := readFrame(t, alice)
	assert.Equal(t, models.EventMessageSent, ack.Event)
}

func TestSendMessageFailureErrorsOriginatorOnly(t *testing.T) {
	f := newGatewayFixture(t)

	alice := f.connect(t, "tok-alice", aliceID)
	require.NoError(t, alice.WriteJSON(map[string]any{
		"event": "sendMessage",
		"data":  map[string]any{"receiverId": bobID, "content": "  "},
	}))

	frame := readFrame(t, alice)
	assert.Equal(t, models.EventError, frame.Event)
	assert.Contains(t, string(frame.Data), "content is required")
	f.messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTypingIsRelayed(t *testing.T) {
	f := newGatewayFixture(t)
	alice := f.connect(t, "tok-alice", aliceID)
	bob := f.connect(t, "tok-bob", bobID)

	require.NoError(t, alice.WriteJSON(map[string]any{"event": "typing", "data": map[string]any{"receiverId": bobID}}))
	frame := readFrame(t, bob)
	assert.Equal(t, models.EventUserTyping, frame.Event)
	assert.JSONEq(t, `{"userId":"`+aliceID+`"}`, string(frame.Data))

	require.NoError(t, alice.WriteJSON(map[string]any{"event": "stopTyping", "data": map[string]any{"receiverId": bobID}}))
	frame = readFrame(t, bob)
	assert.Equal(t, models.EventUserStoppedTyping, frame.Event)
}

func TestUnknownEventReturnsError(t *testing.T) {
	f := newGatewayFixture(t)
	alice := f.connect(t, "tok-alice", aliceID)

	require.NoError(t, alice.WriteJSON(map[string]any{"event": "dance"}))
	frame := readFrame(t, alice)
	assert.Equal(t, models.EventError, frame.Event)
}

func TestDisconnectRemovesPresence(t *testing.T) {
	f := newGatewayFixture(t)
	alice := f.connect(t, "tok-alice", aliceID)

	require.NoError(t, alice.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	alice.Close()

	require.Eventually(t, func() bool { return !f.hub.Online(aliceID) }, 2*time.Second, 10*time.Millisecond)
}

func TestCloseAllDisconnectsLiveConnections(t *testing.T) {
	f := newGatewayFixture(t)
	alice := f.connect(t, "tok-alice", aliceID)

	assert.Equal(t, 1, f.hub.CloseAll())

	require.Eventually(t, func() bool { return !f.hub.Online(aliceID) }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := alice.ReadMessage()
	assert.Error(t, err)
}

func TestHandshakeWithSignedJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := auth.NewVerifier("test-secret")
	users := new(mocks.UserRepositoryMock)
	users.On("GetUser", mock.Anything, aliceID).Return(models.User{ID: aliceID, IsActive: true}, nil)

	hub := NewHub()
	gateway := NewGateway(hub, services.NewChatService(new(mocks.MessageRepositoryMock), users), verifier, users, Options{SendBuffer: 4})
	router := gin.New()
	router.GET("/ws", gateway.Handle)
	server := httptest.NewServer(router)
	defer server.Close()

	token, err := verifier.Issue(aliceID, time.Minute)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Online(aliceID) }, 2*time.Second, 10*time.Millisecond)
}

func TestHandshakeInactiveAccountForbidden(t *testing.T) {
	f := newGatewayFixture(t)
	const inactive = "33333333-3333-3333-3333-333333333333"
	f.tokens.On("ValidateToken", mock.Anything, "tok-inactive").Return(inactive, nil).Once()
	f.users.On("GetUser", mock.Anything, inactive).Return(models.User{ID: inactive, IsActive: false}, nil).Once()

	_, resp, err := f.dial(t, "?token=tok-inactive", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, f.hub.Online(inactive))
}
