package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	routingKeys []string
	err         error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, routingKey string, _ interface{}, _ map[string]string) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return p.err
}

func TestPublishEventWithoutPublisher(t *testing.T) {
	SetPublisher(nil)
	require.NoError(t, PublishEvent(context.Background(), RoutingKeyMatches, NewMatchEvent("a", "b"), nil))
}

func TestPublishEventUsesDefaultPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	SetPublisher(pub)
	t.Cleanup(func() { SetPublisher(nil) })

	require.NoError(t, PublishEvent(context.Background(), RoutingKeyWSEvents, NewWSEvent(WSEventPayload{Event: "ws_connect"}), nil))
	assert.Equal(t, []string{RoutingKeyWSEvents}, pub.routingKeys)
}

func TestPublishEventReturnsError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("closed")}
	SetPublisher(pub)
	t.Cleanup(func() { SetPublisher(nil) })

	assert.Error(t, PublishEvent(context.Background(), RoutingKeyMatches, NewMatchEvent("a", "b"), nil))
}

func TestBuildHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"x-request-id": "r", "trace_id": "t"}, BuildHeaders("r", "t"))
	assert.Empty(t, BuildHeaders("", ""))
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", IPFromRequest(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	assert.Equal(t, "1.2.3.4", IPFromRequest(req))
}

func TestSplitFullMethod(t *testing.T) {
	service, method := splitFullMethod("/grpc.health.v1.Health/Check")
	assert.Equal(t, "grpc.health.v1.Health", service)
	assert.Equal(t, "Check", method)

	service, method = splitFullMethod("bad")
	assert.Equal(t, "unknown", service)
	assert.Equal(t, "unknown", method)
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
