package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dating-service/internal/models"
)

func testClient(userID string, buffer int) *Client {
	return newClient(nil, ConnInfo{ConnID: newConnID(), UserID: userID}, buffer, time.Second)
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	client := testClient("alice", 4)

	assert.Nil(t, hub.Register(client))
	assert.True(t, hub.Online("alice"))
	assert.Equal(t, 1, hub.Count())

	assert.True(t, hub.Unregister(client))
	assert.False(t, hub.Online("alice"))
	assert.Equal(t, 0, hub.Count())
}

func TestHubReconnectReplacesEntry(t *testing.T) {
	hub := NewHub()
	first := testClient("alice", 4)
	second := testClient("alice", 4)

	hub.Register(first)
	assert.Same(t, first, hub.Register(second))

	current, ok := hub.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, current)
}

func TestHubStaleDisconnectKeepsNewerConnection(t *testing.T) {
	hub := NewHub()
	first := testClient("alice", 4)
	second := testClient("alice", 4)

	hub.Register(first)
	hub.Register(second)

	assert.False(t, hub.Unregister(first))
	current, ok := hub.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, current)
}

func TestHubSendToEncodesFrame(t *testing.T) {
	hub := NewHub()
	client := testClient("bob", 4)
	hub.Register(client)

	require.True(t, hub.SendTo("bob", models.EventUserTyping, models.TypingNotice{UserID: "alice"}))

	var frame models.Frame
	require.NoError(t, json.Unmarshal(<-client.send, &frame))
	assert.Equal(t, models.EventUserTyping, frame.Event)
	assert.JSONEq(t, `{"userId":"alice"}`, string(frame.Data))
}

func TestHubSendToOfflineIsSoftFailure(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.SendTo("nobody", models.EventReceiveMessage, models.Message{}))
}

func TestHubSendToFullQueueDoesNotBlock(t *testing.T) {
	hub := NewHub()
	client := testClient("bob", 1)
	hub.Register(client)

	assert.True(t, hub.SendTo("bob", models.EventUserTyping, models.TypingNotice{UserID: "a"}))
	assert.False(t, hub.SendTo("bob", models.EventUserTyping, models.TypingNotice{UserID: "b"}))
}

func TestClosedClientRejectsPush(t *testing.T) {
	client := testClient("bob", 4)
	client.close()
	client.close()

	ok, reason := client.enqueue([]byte("{}"))
	assert.False(t, ok)
	assert.Equal(t, "closed", reason)
}

func TestHubCloseAllClosesEveryClient(t *testing.T) {
	hub := NewHub()
	alice := testClient("alice", 4)
	bob := testClient("bob", 4)
	hub.Register(alice)
	hub.Register(bob)

	assert.Equal(t, 2, hub.CloseAll())

	for _, client := range []*Client{alice, bob} {
		select {
		case <-client.done:
		default:
			t.Fatalf("client %s still open", client.UserID())
		}
		ok, reason := client.enqueue([]byte("{}"))
		assert.False(t, ok)
		assert.Equal(t, "closed", reason)
	}
}

func TestHubCloseAllEmptyHub(t *testing.T) {
	assert.Equal(t, 0, NewHub().CloseAll())
}
