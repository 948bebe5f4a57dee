package ws

import (
	"encoding/json"
	"time"
)

// Event is the frame pushed to console clients, e.g. when maintenance mode
// is switched so every open console refreshes its toggle.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Publish encodes and broadcasts one event. Encoding failures are logged
// and the event is dropped.
func (h *Hub) Publish(eventType string, data any) {
	if h == nil || eventType == "" {
		return
	}
	b, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		h.logger.WithError(err).WithField("type", eventType).Warn("ws event encode failed")
		return
	}
	h.Broadcast(b)
}
