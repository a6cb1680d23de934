package ws

import (
	"encoding/json"

	"github.com/google/uuid"

	"dating-service/internal/models"
	"dating-service/internal/observability"
)

func newConnID() string {
	return uuid.NewString()
}

// encodeFrame renders {"event": event, "data": data}.
func encodeFrame(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.Frame{Event: event, Data: raw})
}

func wsEvent(event string, info ConnInfo, durationMS int64, reason string) observability.EventEnvelope {
	return observability.NewWSEvent(observability.WSEventPayload{
		Event:      event,
		ConnID:     info.ConnID,
		UserID:     info.UserID,
		DeviceID:   info.DeviceID,
		IP:         info.IP,
		DurationMS: durationMS,
		Reason:     reason,
	})
}
